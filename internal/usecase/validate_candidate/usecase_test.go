package validate_candidate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SlotEngine/internal/rules"
	"github.com/m04kA/SMC-SlotEngine/pkg/ptr"
)

type mockResourceRepo struct {
	rctx      *domain.ResourceContext
	svc       *domain.ServiceDescriptor
	rctxErr   error
	svcErr    error
	rctxCalls int
}

func (m *mockResourceRepo) GetResourceContext(ctx context.Context, resourceID int64) (*domain.ResourceContext, error) {
	m.rctxCalls++
	if m.rctxErr != nil {
		return nil, m.rctxErr
	}
	return m.rctx, nil
}

func (m *mockResourceRepo) GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceDescriptor, error) {
	if m.svcErr != nil {
		return nil, m.svcErr
	}
	return m.svc, nil
}

type mockEventRepo struct {
	events []domain.OccupiedInterval
	calls  int
}

func (m *mockEventRepo) GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]domain.OccupiedInterval, error) {
	m.calls++
	return m.events, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	t time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.t
}

func civil(hour, minute int) time.Time {
	return time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)
}

func testResource() *domain.ResourceContext {
	return &domain.ResourceContext{
		ResourceID:     1,
		OpeningMinutes: 9 * 60,
		ClosingMinutes: 17 * 60,
		StepMinutes:    30,
	}
}

func newTestUseCase(resources *mockResourceRepo, events *mockEventRepo) *UseCase {
	pipeline := rules.NewPipelineWithTimeProvider(&fixedTime{t: civil(0, 0)})
	return NewUseCase(resources, events, pipeline, nopLogger{})
}

func TestExecute_Accepted(t *testing.T) {
	uc := newTestUseCase(&mockResourceRepo{rctx: testResource()}, &mockEventRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, resp.Outcome)
	assert.Empty(t, resp.Reason)
}

func TestExecute_RejectedWithReason(t *testing.T) {
	uc := newTestUseCase(
		&mockResourceRepo{rctx: testResource()},
		&mockEventRepo{events: []domain.OccupiedInterval{
			{Start: civil(10, 0), End: civil(11, 0), Kind: domain.KindNormal},
		}},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Candidate:  domain.CandidateInterval{Start: civil(10, 30), End: civil(11, 30)},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, resp.Outcome)
	assert.Equal(t, "выбранное время пересекается с существующим бронированием", resp.Reason)
}

func TestExecute_UnchangedShortCircuits(t *testing.T) {
	// Совпадение с предыдущим кандидатом не доходит ни до репозиториев,
	// ни до пайплайна: повторное событие выделения не перезапускает валидацию
	resources := &mockResourceRepo{rctx: testResource()}
	events := &mockEventRepo{}
	uc := newTestUseCase(resources, events)

	candidate := domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)}
	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Candidate:  candidate,
		Prior:      &candidate,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, resp.Outcome)
	assert.Zero(t, resources.rctxCalls)
	assert.Zero(t, events.calls)
}

func TestExecute_ChangedCandidateIsRevalidated(t *testing.T) {
	resources := &mockResourceRepo{rctx: testResource()}
	uc := newTestUseCase(resources, &mockEventRepo{})

	prior := domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)}
	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 30)},
		Prior:      &prior,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, resp.Outcome)
	assert.Equal(t, 1, resources.rctxCalls)
}

func TestExecute_WithActiveService(t *testing.T) {
	svc := &domain.ServiceDescriptor{
		ID:            5,
		ResourceID:    1,
		DurationSteps: 2,
		Availability: domain.ServiceAvailability{
			Mode: domain.AvailabilityTimeRange,
			From: "10:00",
			To:   "14:00",
		},
	}
	uc := newTestUseCase(&mockResourceRepo{rctx: testResource(), svc: svc}, &mockEventRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Candidate:  domain.CandidateInterval{Start: civil(15, 0), End: civil(16, 0)},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, resp.Outcome)
	assert.Equal(t, "эта услуга доступна только с 10:00 до 14:00", resp.Reason)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	uc := newTestUseCase(&mockResourceRepo{rctxErr: resourceRepo.ErrResourceNotFound}, &mockEventRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID: 42,
		Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)},
	})

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&mockResourceRepo{rctx: testResource(), svcErr: resourceRepo.ErrServiceNotFound}, &mockEventRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		ServiceID:  ptr.Ptr(int64(99)),
		Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)},
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&mockResourceRepo{}, &mockEventRepo{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"non-positive resource", &Request{
			ResourceID: 0,
			Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)},
		}},
		{"zero candidate", &Request{ResourceID: 1}},
		{"non-positive service", &Request{
			ResourceID: 1,
			ServiceID:  ptr.Ptr(int64(0)),
			Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_InvalidConfig(t *testing.T) {
	rctx := testResource()
	rctx.StepMinutes = 0
	uc := newTestUseCase(&mockResourceRepo{rctx: rctx}, &mockEventRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Candidate:  domain.CandidateInterval{Start: civil(10, 0), End: civil(11, 0)},
	})

	assert.ErrorIs(t, err, ErrInvalidConfig)
}
