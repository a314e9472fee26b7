// services/expiry.go
package services

import (
	"fmt"
	"time"

	"bizops-backend/models"
	"bizops-backend/utils"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryService            Category = "service"
	CategoryCompanyDocument    Category = "company_document"
	CategoryIndividualDocument Category = "individual_document"
	CategoryEmployeeDocument   Category = "employee_document"
	CategoryMonetaryDue        Category = "monetary_due"
)

// ExpiringItem is the normalized shape every record category resolves into.
// Nothing downstream of a source ever touches raw rows.
type ExpiringItem struct {
	ID             string
	Category       Category
	ExpiryDate     time.Time
	RecipientEmail string // empty means no resolvable recipient
	SecondaryEmail string
	RecipientPhone string
	RecipientName  string
	DisplayFields  map[string]string
}

// ExpirySource resolves the records of one category whose expiry date falls
// on the given calendar day.
type ExpirySource interface {
	Category() Category
	ResolveExpiringOn(date time.Time) ([]ExpiringItem, error)
}

// NewExpirySources returns the full set of tracked category sources.
func NewExpirySources(db *gorm.DB) []ExpirySource {
	return []ExpirySource{
		&serviceExpirySource{db: db},
		&companyDocumentSource{db: db},
		&individualDocumentSource{db: db},
		&employeeDocumentSource{db: db},
		&monetaryDueSource{db: db},
	}
}

func dayWindow(date time.Time) (time.Time, time.Time) {
	start := utils.BeginningOfDay(date)
	return start, start.AddDate(0, 0, 1)
}

type serviceExpirySource struct {
	db *gorm.DB
}

func (s *serviceExpirySource) Category() Category { return CategoryService }

func (s *serviceExpirySource) ResolveExpiringOn(date time.Time) ([]ExpiringItem, error) {
	start, end := dayWindow(date)

	var services []models.CompanyService
	err := s.db.Preload("Company").
		Where("status = ? AND expiry_date >= ? AND expiry_date < ?", "active", start, end).
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("query expiring services: %w", err)
	}

	items := make([]ExpiringItem, 0, len(services))
	for _, svc := range services {
		items = append(items, ExpiringItem{
			ID:             svc.ID.String(),
			Category:       CategoryService,
			ExpiryDate:     svc.ExpiryDate,
			RecipientEmail: svc.Company.Email,
			SecondaryEmail: svc.Company.SecondaryEmail,
			RecipientPhone: svc.Company.Phone,
			RecipientName:  svc.Company.Name,
			DisplayFields: map[string]string{
				"serviceName":   svc.Name,
				"invoiceNumber": svc.InvoiceNumber,
				"amount":        fmt.Sprintf("%.2f", svc.Amount),
				"expiryDate":    svc.ExpiryDate.Format("2006-01-02"),
			},
		})
	}
	return items, nil
}

type companyDocumentSource struct {
	db *gorm.DB
}

func (s *companyDocumentSource) Category() Category { return CategoryCompanyDocument }

func (s *companyDocumentSource) ResolveExpiringOn(date time.Time) ([]ExpiringItem, error) {
	start, end := dayWindow(date)

	var docs []models.CompanyDocument
	err := s.db.Preload("Company").
		Where("status = ? AND expiry_date >= ? AND expiry_date < ?", "active", start, end).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("query expiring company documents: %w", err)
	}

	items := make([]ExpiringItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ExpiringItem{
			ID:             doc.ID.String(),
			Category:       CategoryCompanyDocument,
			ExpiryDate:     doc.ExpiryDate,
			RecipientEmail: doc.Company.Email,
			SecondaryEmail: doc.Company.SecondaryEmail,
			RecipientPhone: doc.Company.Phone,
			RecipientName:  doc.Company.Name,
			DisplayFields: map[string]string{
				"documentTitle":  doc.Title,
				"documentType":   doc.DocType,
				"documentNumber": doc.DocNumber,
				"expiryDate":     doc.ExpiryDate.Format("2006-01-02"),
			},
		})
	}
	return items, nil
}

type individualDocumentSource struct {
	db *gorm.DB
}

func (s *individualDocumentSource) Category() Category { return CategoryIndividualDocument }

func (s *individualDocumentSource) ResolveExpiringOn(date time.Time) ([]ExpiringItem, error) {
	start, end := dayWindow(date)

	var docs []models.IndividualDocument
	err := s.db.Preload("Individual").
		Where("status = ? AND expiry_date >= ? AND expiry_date < ?", "active", start, end).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("query expiring individual documents: %w", err)
	}

	items := make([]ExpiringItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ExpiringItem{
			ID:             doc.ID.String(),
			Category:       CategoryIndividualDocument,
			ExpiryDate:     doc.ExpiryDate,
			RecipientEmail: doc.Individual.Email,
			SecondaryEmail: doc.Individual.SecondaryEmail,
			RecipientPhone: doc.Individual.Phone,
			RecipientName:  doc.Individual.Name,
			DisplayFields: map[string]string{
				"documentTitle":  doc.Title,
				"documentType":   doc.DocType,
				"documentNumber": doc.DocNumber,
				"expiryDate":     doc.ExpiryDate.Format("2006-01-02"),
			},
		})
	}
	return items, nil
}

type employeeDocumentSource struct {
	db *gorm.DB
}

func (s *employeeDocumentSource) Category() Category { return CategoryEmployeeDocument }

func (s *employeeDocumentSource) ResolveExpiringOn(date time.Time) ([]ExpiringItem, error) {
	start, end := dayWindow(date)

	var docs []models.EmployeeDocument
	err := s.db.Preload("Employee").
		Where("status = ? AND expiry_date >= ? AND expiry_date < ?", "active", start, end).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("query expiring employee documents: %w", err)
	}

	items := make([]ExpiringItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ExpiringItem{
			ID:             doc.ID.String(),
			Category:       CategoryEmployeeDocument,
			ExpiryDate:     doc.ExpiryDate,
			RecipientEmail: doc.Employee.Email,
			SecondaryEmail: doc.Employee.SecondaryEmail,
			RecipientPhone: doc.Employee.Phone,
			RecipientName:  doc.Employee.Name,
			DisplayFields: map[string]string{
				"documentTitle":  doc.Title,
				"documentType":   doc.DocType,
				"documentNumber": doc.DocNumber,
				"expiryDate":     doc.ExpiryDate.Format("2006-01-02"),
			},
		})
	}
	return items, nil
}

type monetaryDueSource struct {
	db *gorm.DB
}

func (s *monetaryDueSource) Category() Category { return CategoryMonetaryDue }

func (s *monetaryDueSource) ResolveExpiringOn(date time.Time) ([]ExpiringItem, error) {
	start, end := dayWindow(date)

	var dues []models.Due
	err := s.db.Preload("Company").
		Where("status IN ? AND due_date >= ? AND due_date < ?", []string{"pending", "partial"}, start, end).
		Find(&dues).Error
	if err != nil {
		return nil, fmt.Errorf("query upcoming dues: %w", err)
	}

	items := make([]ExpiringItem, 0, len(dues))
	for _, due := range dues {
		items = append(items, ExpiringItem{
			ID:             due.ID.String(),
			Category:       CategoryMonetaryDue,
			ExpiryDate:     due.DueDate,
			RecipientEmail: due.Company.Email,
			SecondaryEmail: due.Company.SecondaryEmail,
			RecipientPhone: due.Company.Phone,
			RecipientName:  due.Company.Name,
			DisplayFields: map[string]string{
				"description": due.Description,
				"amountDue":   fmt.Sprintf("%.2f", due.Balance()),
				"dueDate":     due.DueDate.Format("2006-01-02"),
			},
		})
	}
	return items, nil
}
