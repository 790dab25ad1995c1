// Package mapper converts domain models to response DTOs
package mapper

import (
	"time"

	"github.com/verdantworks/crm-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// ToCompanyDTO converts Company to CompanyDTO
func ToCompanyDTO(company *domain.Company) domain.CompanyDTO {
	return domain.CompanyDTO{
		ID:         company.ID,
		Name:       company.Name,
		OrgNumber:  company.OrgNumber,
		Email:      company.Email,
		Phone:      company.Phone,
		Website:    company.Website,
		Address:    company.Address,
		City:       company.City,
		State:      company.State,
		PostalCode: company.PostalCode,
		Status:     company.Status,
		Notes:      company.Notes,
		CreatedAt:  formatTime(company.CreatedAt),
		UpdatedAt:  formatTime(company.UpdatedAt),
	}
}

// ToCompanyWithDetailsDTO includes the company's contacts and properties
func ToCompanyWithDetailsDTO(company *domain.Company) domain.CompanyWithDetailsDTO {
	dto := domain.CompanyWithDetailsDTO{CompanyDTO: ToCompanyDTO(company)}
	for i := range company.Contacts {
		dto.Contacts = append(dto.Contacts, ToContactDTO(&company.Contacts[i]))
	}
	for i := range company.Properties {
		dto.Properties = append(dto.Properties, ToPropertyDTO(&company.Properties[i]))
	}
	return dto
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	dto := domain.ContactDTO{
		ID:        contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		FullName:  contact.FullName(),
		Email:     contact.Email,
		Phone:     contact.Phone,
		Title:     contact.Title,
		CompanyID: contact.CompanyID,
		Notes:     contact.Notes,
		IsActive:  contact.IsActive,
		CreatedAt: formatTime(contact.CreatedAt),
		UpdatedAt: formatTime(contact.UpdatedAt),
	}
	if contact.Company != nil {
		dto.CompanyName = contact.Company.Name
	}
	return dto
}

// ToDealDTO converts Deal to DealDTO
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	dto := domain.DealDTO{
		ID:                deal.ID,
		Title:             deal.Title,
		Description:       deal.Description,
		CompanyID:         deal.CompanyID,
		ContactID:         deal.ContactID,
		Stage:             deal.Stage,
		Amount:            deal.Amount,
		ExpectedCloseDate: formatDatePtr(deal.ExpectedCloseDate),
		ActualCloseDate:   formatDatePtr(deal.ActualCloseDate),
		ProposalID:        deal.ProposalID,
		Notes:             deal.Notes,
		CreatedAt:         formatTime(deal.CreatedAt),
		UpdatedAt:         formatTime(deal.UpdatedAt),
	}
	if deal.Company != nil {
		dto.CompanyName = deal.Company.Name
	}
	return dto
}

// ToPropertyDTO converts Property to PropertyDTO
func ToPropertyDTO(property *domain.Property) domain.PropertyDTO {
	dto := domain.PropertyDTO{
		ID:         property.ID,
		Name:       property.Name,
		Address:    property.Address,
		City:       property.City,
		State:      property.State,
		PostalCode: property.PostalCode,
		Acreage:    property.Acreage,
		ZoneNotes:  property.ZoneNotes,
		Photos:     property.Photos,
		CompanyID:  property.CompanyID,
		CreatedAt:  formatTime(property.CreatedAt),
		UpdatedAt:  formatTime(property.UpdatedAt),
	}
	if property.Company != nil {
		dto.CompanyName = property.Company.Name
	}
	return dto
}

// ToProductDTO converts Product to ProductDTO
func ToProductDTO(product *domain.Product) domain.ProductDTO {
	return domain.ProductDTO{
		ID:              product.ID,
		Name:            product.Name,
		SKU:             product.SKU,
		Description:     product.Description,
		Category:        product.Category,
		CategoryDisplay: product.Category.DisplayName(),
		Unit:            product.Unit,
		UnitPrice:       product.UnitPrice,
		UnitCost:        product.UnitCost,
		IsActive:        product.IsActive,
		CreatedAt:       formatTime(product.CreatedAt),
		UpdatedAt:       formatTime(product.UpdatedAt),
	}
}

// ToJobDTO converts Job to JobDTO
func ToJobDTO(job *domain.Job) domain.JobDTO {
	dto := domain.JobDTO{
		ID:            job.ID,
		Title:         job.Title,
		Description:   job.Description,
		Status:        job.Status,
		PropertyID:    job.PropertyID,
		ProposalID:    job.ProposalID,
		Crew:          job.Crew,
		ScheduledDate: formatDatePtr(job.ScheduledDate),
		CompletedDate: formatDatePtr(job.CompletedDate),
		CreatedAt:     formatTime(job.CreatedAt),
		UpdatedAt:     formatTime(job.UpdatedAt),
	}
	if job.Property != nil {
		dto.PropertyName = job.Property.Name
	}
	return dto
}

// ToProposalDTO converts Proposal to ProposalDTO, items included when loaded
func ToProposalDTO(proposal *domain.Proposal) domain.ProposalDTO {
	dto := domain.ProposalDTO{
		ID:             proposal.ID,
		Title:          proposal.Title,
		Status:         proposal.Status,
		CompanyID:      proposal.CompanyID,
		ContactID:      proposal.ContactID,
		DealID:         proposal.DealID,
		PropertyID:     proposal.PropertyID,
		TaxRate:        proposal.TaxRate,
		Subtotal:       proposal.Subtotal,
		TaxAmount:      proposal.TaxAmount,
		TotalAmount:    proposal.TotalAmount,
		DepositAmount:  proposal.DepositAmount,
		ExpiresAt:      formatDatePtr(proposal.ExpiresAt),
		Notes:          proposal.Notes,
		PDFPath:        proposal.PDFPath,
		PDFGeneratedAt: formatTimePtr(proposal.PDFGeneratedAt),
		CreatedAt:      formatTime(proposal.CreatedAt),
		UpdatedAt:      formatTime(proposal.UpdatedAt),
	}
	if proposal.Company != nil {
		dto.CompanyName = proposal.Company.Name
	}
	if proposal.Contact != nil {
		dto.ContactName = proposal.Contact.FullName()
	}
	if proposal.Property != nil {
		dto.PropertyName = proposal.Property.Name
	}
	for i := range proposal.Items {
		dto.Items = append(dto.Items, ToProposalItemDTO(&proposal.Items[i]))
	}
	return dto
}

// ToProposalItemDTO converts ProposalItem to ProposalItemDTO
func ToProposalItemDTO(item *domain.ProposalItem) domain.ProposalItemDTO {
	return domain.ProposalItemDTO{
		ID:                 item.ID,
		ProposalID:         item.ProposalID,
		ProductID:          item.ProductID,
		SectionName:        item.SectionName,
		Name:               item.Name,
		Description:        item.Description,
		Quantity:           item.Quantity,
		Unit:               item.Unit,
		UnitPrice:          item.UnitPrice,
		UnitCost:           item.UnitCost,
		TotalPrice:         item.TotalPrice,
		IsVisibleToClient:  item.IsVisibleToClient,
		IsOptional:         item.IsOptional,
		IsSelectedByClient: item.IsSelectedByClient,
		SortOrder:          item.SortOrder,
		SectionSortOrder:   item.SectionSortOrder,
	}
}

// ToFileDTO converts File to FileDTO
func ToFileDTO(file *domain.File) domain.FileDTO {
	return domain.FileDTO{
		ID:          file.ID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		ProposalID:  file.ProposalID,
		CreatedAt:   formatTime(file.CreatedAt),
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          activity.ID,
		TargetType:  activity.TargetType,
		TargetID:    activity.TargetID,
		TargetName:  activity.TargetName,
		Title:       activity.Title,
		Body:        activity.Body,
		OccurredAt:  formatTime(activity.OccurredAt),
		CreatorID:   activity.CreatorID,
		CreatorName: activity.CreatorName,
	}
}
