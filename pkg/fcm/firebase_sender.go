package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseSender delivers through the Firebase Admin SDK, which manages its own credentials.
type FirebaseSender struct {
	messagingClient *messaging.Client
}

// NewFirebaseSender creates a sender using the provided credentials file
func NewFirebaseSender(ctx context.Context, credentialsFile, projectID string) (*FirebaseSender, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Firebase client initialized successfully")
	return &FirebaseSender{messagingClient: messagingClient}, nil
}

func buildSDKMessage(msg Message) *messaging.Message {
	badge := 1
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:                 "default",
				ChannelID:             "default",
				DefaultSound:          true,
				DefaultVibrateTimings: true,
				Priority:              messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
		Data: StringifyData(msg.Data),
	}
}

func (s *FirebaseSender) Send(ctx context.Context, msg Message) error {
	response, err := s.messagingClient.Send(ctx, buildSDKMessage(msg))
	if err != nil {
		return classifySDKError(err)
	}
	log.Printf("[FCM] Message sent successfully: %s", response)
	return nil
}

// classifySDKError maps SDK error predicates onto the gateway's error codes.
func classifySDKError(err error) *DeliveryError {
	var code string
	switch {
	case messaging.IsUnregistered(err):
		code = CodeUnregistered
	case errorutils.IsInvalidArgument(err):
		code = CodeInvalidArgument
	case errorutils.IsNotFound(err):
		code = CodeNotFound
	case errorutils.IsUnavailable(err):
		code = "UNAVAILABLE"
	case errorutils.IsInternal(err):
		code = "INTERNAL"
	default:
		code = "UNKNOWN"
	}

	status := 0
	if resp := errorutils.HTTPResponse(err); resp != nil {
		status = resp.StatusCode
	}
	return newDeliveryError(status, code, err.Error())
}
