package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	authdomain "lms-backend/internal/auth/domain"
	authRepo "lms-backend/internal/auth/repository"
	authUsecase "lms-backend/internal/auth/usecase"
	notificationdomain "lms-backend/internal/notification/domain"
	notificationUsecase "lms-backend/internal/notification/usecase"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	auth   authUsecase.AuthUsecase
	users  authRepo.UserRepository
	fanout notificationUsecase.Fanout
	inbox  notificationUsecase.InboxUsecase
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createuser -email EMAIL -name NAME [-role student|educator|admin] - create a user, password is prompted")
	fmt.Fprintln(cli.out, "  announce -title TITLE -message MESSAGE [-link LINK] - notify every user")
	fmt.Fprintln(cli.out, "  notify -user EMAIL -title TITLE -message MESSAGE [-link LINK] - notify one user")
	fmt.Fprintln(cli.out, "  purge-notifications - delete every notification")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createUserCmd := flag.NewFlagSet("createuser", flag.ContinueOnError)
	createUserEmail := createUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	createUserName := createUserCmd.String("name", "", "The user's display name.")
	createUserRole := createUserCmd.String("role", string(authdomain.RoleStudent), "student, educator or admin.")

	announceCmd := flag.NewFlagSet("announce", flag.ContinueOnError)
	announceTitle := announceCmd.String("title", "", "Notification title.")
	announceMessage := announceCmd.String("message", "", "Notification body.")
	announceLink := announceCmd.String("link", "", "Optional link opened from the notification.")

	notifyCmd := flag.NewFlagSet("notify", flag.ContinueOnError)
	notifyUser := notifyCmd.String("user", "", "Recipient email.")
	notifyTitle := notifyCmd.String("title", "", "Notification title.")
	notifyMessage := notifyCmd.String("message", "", "Notification body.")
	notifyLink := notifyCmd.String("link", "", "Optional link opened from the notification.")

	purgeCmd := flag.NewFlagSet("purge-notifications", flag.ContinueOnError)

	for _, fs := range []*flag.FlagSet{createUserCmd, announceCmd, notifyCmd, purgeCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "createuser":
		if err := createUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createUserEmail == "" || *createUserName == "" {
			createUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createUserCmd.Usage()
			return errHelp
		}
		return cli.createUser(*createUserName, *createUserEmail, string(pwd), authdomain.Role(*createUserRole))

	case "announce":
		if err := announceCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *announceTitle == "" || *announceMessage == "" {
			announceCmd.Usage()
			return errHelp
		}
		return cli.announce(ctx, *announceTitle, *announceMessage, *announceLink)

	case "notify":
		if err := notifyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *notifyUser == "" || *notifyTitle == "" || *notifyMessage == "" {
			notifyCmd.Usage()
			return errHelp
		}
		return cli.notify(ctx, *notifyUser, *notifyTitle, *notifyMessage, *notifyLink)

	case "purge-notifications":
		if err := purgeCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.purgeNotifications()

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createUser(name, email, password string, role authdomain.Role) error {
	user, err := cli.auth.CreateUser(name, email, password, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func optionalLink(link string) *string {
	if l := strings.TrimSpace(link); l != "" {
		return &l
	}
	return nil
}

func (cli *commandLine) announce(ctx context.Context, title, message, link string) error {
	count, err := cli.fanout.NotifyAll(ctx, notificationUsecase.NotifyAllInput{
		Type:    notificationdomain.TypeAdminAnnouncement,
		Title:   title,
		Message: message,
		Link:    optionalLink(link),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Notified %d users\n", count)
	return nil
}

func (cli *commandLine) notify(ctx context.Context, email, title, message, link string) error {
	user, err := cli.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%s: %w", email, authUsecase.ErrUserNotFound)
	}

	n, err := cli.fanout.NotifyUser(ctx, notificationUsecase.NotifyInput{
		UserID:  user.ID,
		Type:    notificationdomain.TypeAdminAnnouncement,
		Title:   title,
		Message: message,
		Link:    optionalLink(link),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Notified %s (%s)\n", user.Email, n.ID)
	return nil
}

func (cli *commandLine) purgeNotifications() error {
	deleted, err := cli.inbox.Purge()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted %d notifications\n", deleted)
	return nil
}
