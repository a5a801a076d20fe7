package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaanavykhari/studio-api/internal/models"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
)

type mockPaymentRepo struct {
	payments map[string]models.Payment
	details  []models.PaymentDetail
	sums     map[models.PaymentStatus]float64
	created  *models.Payment
	updated  *models.Payment
}

func (m *mockPaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error) {
	return m.details, len(m.details), nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = "pay-new"
	}
	m.created = payment
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	m.payments[payment.ID] = *payment
	m.updated = payment
	return nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id string) error {
	delete(m.payments, id)
	return nil
}

func (m *mockPaymentRepo) SumByStatus(ctx context.Context) (map[models.PaymentStatus]float64, error) {
	return m.sums, nil
}

func newPaymentServiceForTest(repo *mockPaymentRepo, students *mockSessionStudents) *PaymentService {
	svc := NewPaymentService(repo, students, nil, nil)
	svc.now = func() time.Time { return date(2024, time.March, 1) }
	return svc
}

func TestPaymentServiceCreate(t *testing.T) {
	repo := &mockPaymentRepo{}
	students := &mockSessionStudents{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", Name: "Asha"},
	}}
	svc := newPaymentServiceForTest(repo, students)

	payment, err := svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		DueDate:   date(2024, time.March, 10),
		Amount:    2000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaidDate)

	_, err = svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "missing",
		DueDate:   date(2024, time.March, 10),
		Amount:    2000,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		DueDate:   date(2024, time.March, 10),
		Amount:    -5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceMarkPaid(t *testing.T) {
	repo := &mockPaymentRepo{payments: map[string]models.Payment{
		"pay-1": {ID: "pay-1", StudentID: "stu-1", Amount: 2000, Status: models.PaymentStatusPending},
	}}
	svc := newPaymentServiceForTest(repo, &mockSessionStudents{})

	payment, err := svc.MarkPaid(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidDate)
	assert.Equal(t, date(2024, time.March, 1), *payment.PaidDate)

	// Paying twice is a conflict.
	_, err = svc.MarkPaid(context.Background(), "pay-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceExportCSV(t *testing.T) {
	paid := date(2024, time.February, 20)
	repo := &mockPaymentRepo{details: []models.PaymentDetail{
		{
			Payment: models.Payment{
				ID:        "pay-1",
				StudentID: "stu-1",
				DueDate:   date(2024, time.February, 15),
				Amount:    2000,
				Status:    models.PaymentStatusPaid,
				PaidDate:  &paid,
			},
			StudentName: "Asha",
		},
		{
			Payment: models.Payment{
				ID:        "pay-2",
				StudentID: "stu-2",
				DueDate:   date(2024, time.March, 15),
				Amount:    1500,
				Status:    models.PaymentStatusPending,
			},
			StudentName: "Bala",
		},
	}}
	svc := newPaymentServiceForTest(repo, &mockSessionStudents{})

	out, err := svc.ExportCSV(context.Background(), models.PaymentFilter{})
	require.NoError(t, err)

	body := string(out)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Due Date,Amount,Status,Paid Date", lines[0])
	assert.Contains(t, lines[1], "Asha,2024-02-15,2000.00,paid,2024-02-20")
	assert.Contains(t, lines[2], "Bala,2024-03-15,1500.00,pending,")
}

func TestPaymentServiceExportPDF(t *testing.T) {
	repo := &mockPaymentRepo{details: []models.PaymentDetail{{
		Payment: models.Payment{
			ID:      "pay-1",
			DueDate: date(2024, time.March, 15),
			Amount:  1500,
			Status:  models.PaymentStatusPending,
		},
		StudentName: "Asha",
	}}}
	svc := newPaymentServiceForTest(repo, &mockSessionStudents{})

	out, err := svc.ExportPDF(context.Background(), models.PaymentFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
