package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/mapper"
	"github.com/verdantworks/crm-api/internal/pdf"
	"github.com/verdantworks/crm-api/internal/pricing"
	"github.com/verdantworks/crm-api/internal/repository"
)

// ProposalService owns the proposal lifecycle: CRUD, line item sync, pricing
// aggregation and the PDF export pipeline.
type ProposalService struct {
	proposalRepo   *repository.ProposalRepository
	itemRepo       *repository.ProposalItemRepository
	artifactSvc    *ArtifactService
	activitySvc    *ActivityService
	renderer       *pdf.Renderer
	logger         *zap.Logger
	retentionCount int
	signedURLTTL   time.Duration
}

func NewProposalService(
	proposalRepo *repository.ProposalRepository,
	itemRepo *repository.ProposalItemRepository,
	artifactSvc *ArtifactService,
	activitySvc *ActivityService,
	renderer *pdf.Renderer,
	logger *zap.Logger,
	retentionCount int,
	signedURLTTL time.Duration,
) *ProposalService {
	return &ProposalService{
		proposalRepo:   proposalRepo,
		itemRepo:       itemRepo,
		artifactSvc:    artifactSvc,
		activitySvc:    activitySvc,
		renderer:       renderer,
		logger:         logger,
		retentionCount: retentionCount,
		signedURLTTL:   signedURLTTL,
	}
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	return &t, nil
}

// Create creates a new proposal
func (s *ProposalService) Create(ctx context.Context, req *domain.CreateProposalRequest) (*domain.ProposalDTO, error) {
	if req.TaxRate < 0 || req.TaxRate > 1 {
		return nil, errors.Join(ErrInvalidInput, pricing.ErrInvalidTaxRate)
	}
	expiresAt, err := parseDatePtr(req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.ProposalStatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid proposal status %q", ErrInvalidInput, status)
	}

	proposal := &domain.Proposal{
		Title:         req.Title,
		Status:        status,
		CompanyID:     req.CompanyID,
		ContactID:     req.ContactID,
		DealID:        req.DealID,
		PropertyID:    req.PropertyID,
		TaxRate:       req.TaxRate,
		DepositAmount: req.DepositAmount,
		ExpiresAt:     expiresAt,
		Notes:         req.Notes,
	}
	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.activitySvc.Log(ctx, domain.ActivityTargetProposal, proposal.ID, proposal.Title,
		"Proposal created", "")

	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

// GetByID returns one proposal with its items
func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

// Update applies a partial update to a proposal
func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProposalRequest) (*domain.ProposalDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		proposal.Title = *req.Title
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid proposal status %q", ErrInvalidInput, *req.Status)
		}
		if proposal.Status != *req.Status {
			s.activitySvc.Log(ctx, domain.ActivityTargetProposal, proposal.ID, proposal.Title,
				"Proposal status changed",
				fmt.Sprintf("%s -> %s", proposal.Status, *req.Status))
		}
		proposal.Status = *req.Status
	}
	if req.CompanyID != nil {
		proposal.CompanyID = req.CompanyID
	}
	if req.ContactID != nil {
		proposal.ContactID = req.ContactID
	}
	if req.DealID != nil {
		proposal.DealID = req.DealID
	}
	if req.PropertyID != nil {
		proposal.PropertyID = req.PropertyID
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 || *req.TaxRate > 1 {
			return nil, errors.Join(ErrInvalidInput, pricing.ErrInvalidTaxRate)
		}
		proposal.TaxRate = *req.TaxRate
	}
	if req.DepositAmount != nil {
		proposal.DepositAmount = *req.DepositAmount
	}
	if req.ExpiresAt != nil {
		expiresAt, err := parseDatePtr(req.ExpiresAt)
		if err != nil {
			return nil, err
		}
		proposal.ExpiresAt = expiresAt
	}
	if req.Notes != nil {
		proposal.Notes = *req.Notes
	}

	// associations are managed through their own endpoints
	proposal.Items = nil
	proposal.Files = nil

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}
	if req.TaxRate != nil {
		if err := s.recomputeTotalsCache(ctx, proposal); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

// Delete removes a proposal and, through the FK cascade, its items
func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.proposalRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.proposalRepo.Delete(ctx, id)
}

// List returns a page of proposals
func (s *ProposalService) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID, status *domain.ProposalStatus) ([]domain.ProposalDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	proposals, total, err := s.proposalRepo.List(ctx, page, pageSize, companyID, status)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.ProposalDTO, 0, len(proposals))
	for i := range proposals {
		dtos = append(dtos, mapper.ToProposalDTO(&proposals[i]))
	}
	return dtos, total, nil
}

// Search finds proposals by title
func (s *ProposalService) Search(ctx context.Context, query string, limit int) ([]domain.ProposalDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	proposals, err := s.proposalRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ProposalDTO, 0, len(proposals))
	for i := range proposals {
		dtos = append(dtos, mapper.ToProposalDTO(&proposals[i]))
	}
	return dtos, nil
}

// SyncItems replaces a proposal's item set with the requested one. The change
// is computed as a diff against current state and applied in one transaction:
// rows keep their identity across syncs and a failure leaves the previous set
// intact. Derived total prices and the proposal's cached totals are recomputed
// on every sync.
func (s *ProposalService) SyncItems(ctx context.Context, proposalID uuid.UUID, req *domain.SyncProposalItemsRequest) ([]domain.ProposalItemDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing, err := s.itemRepo.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	existingByID := make(map[uuid.UUID]*domain.ProposalItem, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}

	var toCreate, toUpdate []domain.ProposalItem
	seen := make(map[uuid.UUID]bool, len(req.Items))

	for _, input := range req.Items {
		if input.ID != nil {
			current, ok := existingByID[*input.ID]
			if !ok {
				return nil, fmt.Errorf("%w: item %s does not belong to proposal %s",
					ErrInvalidInput, *input.ID, proposalID)
			}
			seen[*input.ID] = true
			updated := *current
			applyItemInput(&updated, input)
			toUpdate = append(toUpdate, updated)
			continue
		}
		item := domain.ProposalItem{ProposalID: proposalID}
		applyItemInput(&item, input)
		toCreate = append(toCreate, item)
	}

	var toDelete []uuid.UUID
	for i := range existing {
		if !seen[existing[i].ID] {
			toDelete = append(toDelete, existing[i].ID)
		}
	}

	if err := s.itemRepo.ApplyDiff(ctx, proposalID, toCreate, toUpdate, toDelete); err != nil {
		return nil, err
	}

	if err := s.recomputeTotalsCache(ctx, proposal); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ProposalItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, mapper.ToProposalItemDTO(&items[i]))
	}
	return dtos, nil
}

// applyItemInput copies the requested fields onto an item, filling defaults
// and recomputing the derived total price
func applyItemInput(item *domain.ProposalItem, input domain.ProposalItemInput) {
	item.ProductID = input.ProductID
	item.SectionName = input.SectionName
	if item.SectionName == "" {
		item.SectionName = pricing.DefaultSectionName
	}
	item.Name = input.Name
	item.Description = input.Description
	item.Quantity = input.Quantity
	item.Unit = input.Unit
	if item.Unit == "" {
		item.Unit = "each"
	}
	item.UnitPrice = input.UnitPrice
	item.UnitCost = input.UnitCost
	item.IsVisibleToClient = true
	if input.IsVisibleToClient != nil {
		item.IsVisibleToClient = *input.IsVisibleToClient
	}
	item.IsOptional = input.IsOptional
	item.IsSelectedByClient = true
	if input.IsSelectedByClient != nil {
		item.IsSelectedByClient = *input.IsSelectedByClient
	}
	item.SortOrder = input.SortOrder
	item.SectionSortOrder = input.SectionSortOrder

	item.TotalPrice = decimal.NewFromFloat(input.Quantity).
		Mul(decimal.NewFromFloat(input.UnitPrice)).
		Round(2).InexactFloat64()
}

// recomputeTotalsCache refreshes the proposal's persisted money columns from
// its current items. The cache exists for list views; every display and
// export path still recomputes from the items.
func (s *ProposalService) recomputeTotalsCache(ctx context.Context, proposal *domain.Proposal) error {
	items, err := s.itemRepo.ListByProposal(ctx, proposal.ID)
	if err != nil {
		return err
	}
	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)
	totals, err := pricing.ComputeTotals(sections, proposal.TaxRate)
	if err != nil {
		return err
	}
	return s.proposalRepo.UpdateTotals(ctx, proposal.ID,
		totals.Subtotal.Round(2).InexactFloat64(),
		totals.TaxAmount.InexactFloat64(),
		totals.Total.Round(2).InexactFloat64(),
	)
}

// GetPricing returns the recomputed pricing breakdown for a proposal. Client
// mode hides internal-only items; internal mode includes everything. Either
// way the response carries no cost data.
func (s *ProposalService) GetPricing(ctx context.Context, id uuid.UUID, mode pricing.ViewMode) (*domain.ProposalPricingDTO, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: invalid pricing mode %q", ErrInvalidInput, mode)
	}

	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sections := pricing.GroupIntoSections(proposal.Items, mode)
	totals, err := pricing.ComputeTotals(sections, proposal.TaxRate)
	if err != nil {
		return nil, err
	}

	dto := &domain.ProposalPricingDTO{
		ProposalID:    proposal.ID,
		Mode:          string(mode),
		Sections:      make([]domain.PricingSectionDTO, 0, len(sections)),
		Subtotal:      totals.Subtotal.Round(2).InexactFloat64(),
		TaxRate:       proposal.TaxRate,
		TaxAmount:     totals.TaxAmount.InexactFloat64(),
		TotalAmount:   totals.Total.Round(2).InexactFloat64(),
		DepositAmount: proposal.DepositAmount,
	}
	for _, sec := range sections {
		secDTO := domain.PricingSectionDTO{
			Name:         sec.Name,
			SortOrder:    sec.SortOrder,
			Items:        make([]domain.PricingLineDTO, 0, len(sec.Items)),
			SectionTotal: sec.Total.Round(2).InexactFloat64(),
		}
		for _, item := range sec.Items {
			lineTotal := 0.0
			if item.IsSelectedByClient {
				lineTotal = pricing.LineTotal(item).Round(2).InexactFloat64()
			}
			secDTO.Items = append(secDTO.Items, domain.PricingLineDTO{
				ID:                 item.ID,
				Name:               item.Name,
				Description:        item.Description,
				Quantity:           item.Quantity,
				Unit:               item.Unit,
				UnitPrice:          item.UnitPrice,
				LineTotal:          lineTotal,
				IsOptional:         item.IsOptional,
				IsSelectedByClient: item.IsSelectedByClient,
			})
		}
		dto.Sections = append(dto.Sections, secDTO)
	}
	return dto, nil
}

// Export runs the full export pipeline for one proposal: snapshot, validate,
// aggregate the client view, compute totals, render, upload, then persist the
// artifact path. Each stage feeds the next; nothing is persisted until the
// upload has succeeded. Retention pruning afterwards is best effort.
func (s *ProposalService) Export(ctx context.Context, id uuid.UUID) (*domain.ExportProposalResponse, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// validation happens before any rendering or I/O
	if proposal.Title == "" {
		return nil, pdf.ErrMissingTitle
	}
	if proposal.TaxRate < 0 || proposal.TaxRate > 1 {
		return nil, pricing.ErrInvalidTaxRate
	}

	sections := pricing.GroupIntoSections(proposal.Items, pricing.ViewModeClient)
	totals, err := pricing.ComputeTotals(sections, proposal.TaxRate)
	if err != nil {
		return nil, err
	}

	generatedAt := time.Now().UTC()
	doc := pdf.BuildDocument(proposal, sections, totals, generatedAt)
	pdfBytes, err := s.renderer.Render(&doc)
	if err != nil {
		return nil, err
	}

	path, err := s.artifactSvc.Upload(ctx, proposal.ID, generatedAt, pdfBytes)
	if err != nil {
		return nil, err
	}

	if err := s.proposalRepo.UpdatePDFInfo(ctx, proposal.ID, path, generatedAt); err != nil {
		return nil, err
	}

	s.activitySvc.Log(ctx, domain.ActivityTargetProposal, proposal.ID, proposal.Title,
		"Proposal exported", "PDF stored at "+path)

	// a prune failure never undoes a successful export
	if _, err := s.artifactSvc.Prune(ctx, proposal.ID, s.retentionCount); err != nil {
		s.logger.Warn("Artifact prune failed after export",
			zap.String("proposal_id", proposal.ID.String()),
			zap.Error(err),
		)
	}

	resp := &domain.ExportProposalResponse{
		ProposalID:  proposal.ID,
		PDFPath:     path,
		GeneratedAt: generatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if url, err := s.artifactSvc.AccessURL(ctx, path, s.signedURLTTL); err == nil {
		resp.DownloadURL = url
	} else {
		s.logger.Warn("Failed to generate artifact download URL",
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return resp, nil
}

// ListArtifacts returns the stored PDF artifacts for a proposal, newest first
func (s *ProposalService) ListArtifacts(ctx context.Context, id uuid.UUID) ([]domain.ArtifactDTO, error) {
	if _, err := s.proposalRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	objects, err := s.artifactSvc.List(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ArtifactDTO, 0, len(objects))
	for _, obj := range objects {
		dtos = append(dtos, domain.ArtifactDTO{
			Path:      obj.Path,
			CreatedAt: obj.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Size:      obj.Size,
		})
	}
	return dtos, nil
}

// ArtifactURL returns a time-limited download URL for one of the proposal's
// artifacts. The path must belong to the proposal.
func (s *ProposalService) ArtifactURL(ctx context.Context, id uuid.UUID, path string) (*domain.ArtifactURLResponse, error) {
	prefix := fmt.Sprintf("proposals/%s/", id)
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return nil, fmt.Errorf("%w: artifact path does not belong to proposal %s", ErrInvalidInput, id)
	}

	ttl := s.signedURLTTL
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	url, err := s.artifactSvc.AccessURL(ctx, path, ttl)
	if err != nil {
		return nil, err
	}
	return &domain.ArtifactURLResponse{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(ttl).Format("2006-01-02T15:04:05Z"),
	}, nil
}

// PruneAllArtifacts applies the retention limit to every proposal that has
// exported PDFs. A failure on one proposal does not stop the sweep.
// Returns the number of proposals swept, the number of artifacts deleted and
// the number of proposals that failed.
func (s *ProposalService) PruneAllArtifacts(ctx context.Context) (swept int, deleted int, failed int, err error) {
	ids, err := s.proposalRepo.ListIDsWithArtifacts(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to list proposals for artifact pruning: %w", err)
	}

	for _, id := range ids {
		n, pruneErr := s.artifactSvc.Prune(ctx, id, s.retentionCount)
		if pruneErr != nil {
			failed++
			s.logger.Warn("artifact pruning failed for proposal",
				zap.String("proposal_id", id.String()),
				zap.Error(pruneErr))
			continue
		}
		swept++
		deleted += n
	}
	return swept, deleted, failed, nil
}
