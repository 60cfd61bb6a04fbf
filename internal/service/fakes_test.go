package service

import (
	"context"
	"sort"
	"sync"

	"carbon-trace/internal/domain"
	"carbon-trace/internal/events"
)

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string][]domain.Submission
	createCalls int
	failCreate  error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string][]domain.Submission)}
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate != nil {
		return f.failCreate
	}
	submission.ID = int64(len(f.submissions[submission.Username]) + 1)
	f.submissions[submission.Username] = append(f.submissions[submission.Username], *submission)
	return nil
}

func (f *fakeSubmissionRepo) ListByUsername(_ context.Context, username string) ([]domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Submission(nil), f.submissions[username]...), nil
}

type fakeAggregateRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.AggregateProfile
	upserts  int
}

func newFakeAggregateRepo() *fakeAggregateRepo {
	return &fakeAggregateRepo{profiles: make(map[string]domain.AggregateProfile)}
}

func (f *fakeAggregateRepo) Find(_ context.Context, username string) (*domain.AggregateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[username]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (f *fakeAggregateRepo) ListOthers(_ context.Context, username string) ([]domain.AggregateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for name := range f.profiles {
		if name != username {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var profiles []domain.AggregateProfile
	for _, name := range names {
		profiles = append(profiles, f.profiles[name])
	}
	return profiles, nil
}

func (f *fakeAggregateRepo) Upsert(_ context.Context, profile *domain.AggregateProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.profiles[profile.Username] = *profile
	return nil
}

type fakeReductionRepo struct {
	mu      sync.Mutex
	records map[string]domain.ReductionRecord
	upserts int
}

func newFakeReductionRepo() *fakeReductionRepo {
	return &fakeReductionRepo{records: make(map[string]domain.ReductionRecord)}
}

func (f *fakeReductionRepo) Find(_ context.Context, username string) (*domain.ReductionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[username]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (f *fakeReductionRepo) Upsert(_ context.Context, record *domain.ReductionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.records[record.Username] = *record
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   error
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
