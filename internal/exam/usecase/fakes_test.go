package usecase

import (
	"context"
	"sort"

	"lms-backend/internal/exam/domain"
	notificationdomain "lms-backend/internal/notification/domain"
	notificationusecase "lms-backend/internal/notification/usecase"
)

type fakeTestRepo struct {
	tests     map[string]*domain.Test
	questions map[string]*domain.TestQuestion
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: map[string]*domain.Test{}, questions: map[string]*domain.TestQuestion{}}
}

func (f *fakeTestRepo) Create(test *domain.Test) error {
	cp := *test
	f.tests[test.ID] = &cp
	return nil
}

func (f *fakeTestRepo) Update(test *domain.Test) error {
	cp := *test
	f.tests[test.ID] = &cp
	return nil
}

func (f *fakeTestRepo) Delete(id string) error {
	delete(f.tests, id)
	return nil
}

func (f *fakeTestRepo) FindByID(id string, withQuestions bool) (*domain.Test, error) {
	test, ok := f.tests[id]
	if !ok {
		return nil, nil
	}
	cp := *test
	cp.Questions = nil
	if withQuestions {
		for _, q := range f.questions {
			if q.TestID == id {
				cp.Questions = append(cp.Questions, *q)
			}
		}
		sort.Slice(cp.Questions, func(i, j int) bool { return cp.Questions[i].OrderNumber < cp.Questions[j].OrderNumber })
	}
	return &cp, nil
}

func (f *fakeTestRepo) ListActive() ([]*domain.Test, error) {
	var out []*domain.Test
	for _, t := range f.tests {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestRepo) ListAll() ([]*domain.Test, error) {
	var out []*domain.Test
	for _, t := range f.tests {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTestRepo) CreateQuestion(q *domain.TestQuestion) error {
	cp := *q
	f.questions[q.ID] = &cp
	return nil
}

func (f *fakeTestRepo) UpdateQuestion(q *domain.TestQuestion) error {
	cp := *q
	f.questions[q.ID] = &cp
	return nil
}

func (f *fakeTestRepo) FindQuestion(id string) (*domain.TestQuestion, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeTestRepo) DeleteQuestion(id string) error {
	delete(f.questions, id)
	return nil
}

type fakeResultRepo struct {
	results []*domain.TestResult
}

func (f *fakeResultRepo) Create(result *domain.TestResult) error {
	f.results = append(f.results, result)
	return nil
}

func (f *fakeResultRepo) FindByID(id string) (*domain.TestResult, error) {
	for _, r := range f.results {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeResultRepo) ListByUser(userID string) ([]*domain.TestResult, error) {
	var out []*domain.TestResult
	for _, r := range f.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListAll() ([]*domain.TestResult, error) {
	return f.results, nil
}

type recordingFanout struct {
	all []notificationusecase.NotifyAllInput
	err error
}

func (f *recordingFanout) NotifyUser(_ context.Context, in notificationusecase.NotifyInput) (*notificationdomain.Notification, error) {
	return &notificationdomain.Notification{UserID: in.UserID}, f.err
}

func (f *recordingFanout) NotifyAll(_ context.Context, in notificationusecase.NotifyAllInput) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.all = append(f.all, in)
	return 1, nil
}
