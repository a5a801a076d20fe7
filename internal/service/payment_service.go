package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gaanavykhari/studio-api/internal/models"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
	"github.com/gaanavykhari/studio-api/pkg/export"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
	SumByStatus(ctx context.Context) (map[models.PaymentStatus]float64, error)
}

type paymentStudentGetter interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// CreatePaymentRequest records a new fee installment.
type CreatePaymentRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
}

// UpdatePaymentRequest edits an installment's due date or amount.
type UpdatePaymentRequest struct {
	DueDate time.Time `json:"due_date" validate:"required"`
	Amount  float64   `json:"amount" validate:"required,gt=0"`
}

// PaymentService manages fee installments and renders payment exports.
type PaymentService struct {
	repo      paymentRepository
	students  paymentStudentGetter
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, students paymentStudentGetter, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		repo:      repo,
		students:  students,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns payments with student names.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return payments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a payment by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// Create records a pending installment for a student.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	payment := &models.Payment{
		StudentID: req.StudentID,
		DueDate:   models.DateOnly(req.DueDate),
		Amount:    req.Amount,
		Status:    models.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	return payment, nil
}

// Update edits an installment.
func (s *PaymentService) Update(ctx context.Context, id string, req UpdatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.DueDate = models.DateOnly(req.DueDate)
	payment.Amount = req.Amount
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	return payment, nil
}

// MarkPaid transitions a pending installment to paid, stamping the paid date.
func (s *PaymentService) MarkPaid(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment is already paid")
	}
	paid := models.DateOnly(s.now())
	payment.Status = models.PaymentStatusPaid
	payment.PaidDate = &paid
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark payment paid")
	}
	return payment, nil
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment")
	}
	return nil
}

// ExportCSV renders the filtered payment list as a CSV document.
func (s *PaymentService) ExportCSV(ctx context.Context, filter models.PaymentFilter) ([]byte, error) {
	data, err := s.buildDataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
	}
	return out, nil
}

// ExportPDF renders the filtered payment list as a PDF report.
func (s *PaymentService) ExportPDF(ctx context.Context, filter models.PaymentFilter) ([]byte, error) {
	data, err := s.buildDataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	footer := fmt.Sprintf("Generated %s", s.now().Format("Jan 2, 2006 3:04 PM"))
	out, err := s.pdf.Render(data, "Payment Report", footer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
	}
	return out, nil
}

func (s *PaymentService) buildDataset(ctx context.Context, filter models.PaymentFilter) (export.Dataset, error) {
	filter.Page = 1
	filter.PageSize = 10000
	payments, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payments for export")
	}
	data := export.Dataset{
		Headers: []string{"Student", "Due Date", "Amount", "Status", "Paid Date"},
		Rows:    make([][]string, 0, len(payments)),
	}
	for _, p := range payments {
		paid := ""
		if p.PaidDate != nil {
			paid = p.PaidDate.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, []string{
			p.StudentName,
			p.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", p.Amount),
			string(p.Status),
			paid,
		})
	}
	return data, nil
}
