package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/verdantworks/crm-api/internal/database"
	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/pdf"
	"github.com/verdantworks/crm-api/internal/pricing"
	"github.com/verdantworks/crm-api/internal/repository"
	"github.com/verdantworks/crm-api/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

type proposalFixture struct {
	svc         *service.ProposalService
	artifactSvc *service.ArtifactService
	store       *fakeStorage
	db          *gorm.DB
}

func newProposalFixture(t *testing.T) *proposalFixture {
	t.Helper()
	db := newTestDB(t)
	store := newFakeStorage()
	logger := zap.NewNop()
	artifactSvc := service.NewArtifactService(store, logger)
	activitySvc := service.NewActivityService(repository.NewActivityRepository(db), logger)
	renderer := pdf.NewRenderer(pdf.Branding{
		CompanyName: "Verdant Landscapes",
		ContactLine: "hello@verdantlandscapes.test",
	})
	svc := service.NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewProposalItemRepository(db),
		artifactSvc,
		activitySvc,
		renderer,
		logger,
		3,
		time.Hour,
	)
	return &proposalFixture{svc: svc, artifactSvc: artifactSvc, store: store, db: db}
}

func (fx *proposalFixture) createProposal(t *testing.T, taxRate float64) *domain.ProposalDTO {
	t.Helper()
	dto, err := fx.svc.Create(context.Background(), &domain.CreateProposalRequest{
		Title:   "Backyard renovation",
		TaxRate: taxRate,
	})
	require.NoError(t, err)
	return dto
}

func itemInput(name string, qty, price float64) domain.ProposalItemInput {
	return domain.ProposalItemInput{
		Name:      name,
		Quantity:  qty,
		UnitPrice: price,
	}
}

func TestProposalService_CreateRejectsInvalidTaxRate(t *testing.T) {
	fx := newProposalFixture(t)

	_, err := fx.svc.Create(context.Background(), &domain.CreateProposalRequest{
		Title:   "Bad rate",
		TaxRate: 1.5,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.ErrorIs(t, err, pricing.ErrInvalidTaxRate)
}

func TestProposalService_SyncItemsCachesTotals(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0.08)

	items, err := fx.svc.SyncItems(ctx, proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{
			itemInput("Sod installation", 1, 100.00),
			itemInput("Mulch beds", 1, 100.00),
		},
	})

	require.NoError(t, err)
	require.Len(t, items, 2)

	got, err := fx.svc.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200.00, got.Subtotal, 0.001)
	assert.InDelta(t, 16.00, got.TaxAmount, 0.001)
	assert.InDelta(t, 216.00, got.TotalAmount, 0.001)
}

func TestProposalService_SyncItemsDiffPreservesRowIdentity(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0)

	first, err := fx.svc.SyncItems(ctx, proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{
			itemInput("Paver patio", 1, 4200),
			itemInput("Drip irrigation", 1, 900),
		},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)

	var keptID, droppedID uuid.UUID
	for _, it := range first {
		if it.Name == "Paver patio" {
			keptID = it.ID
		} else {
			droppedID = it.ID
		}
	}

	kept := itemInput("Paver patio", 1, 4500)
	kept.ID = &keptID
	second, err := fx.svc.SyncItems(ctx, proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{
			kept,
			itemInput("Landscape lighting", 4, 150),
		},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)

	byName := make(map[string]domain.ProposalItemDTO, len(second))
	for _, it := range second {
		byName[it.Name] = it
	}
	require.Contains(t, byName, "Paver patio")
	assert.Equal(t, keptID, byName["Paver patio"].ID, "updated row must keep its identity")
	assert.InDelta(t, 4500.00, byName["Paver patio"].UnitPrice, 0.001)
	for _, it := range second {
		assert.NotEqual(t, droppedID, it.ID, "omitted row must be deleted")
	}
}

func TestProposalService_SyncItemsRejectsForeignItemID(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0)
	foreign := uuid.New()

	input := itemInput("Stray item", 1, 10)
	input.ID = &foreign
	_, err := fx.svc.SyncItems(ctx, proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{input},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// a rejected sync leaves the set untouched
	got, err := fx.svc.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestProposalService_SyncItemsRecomputesTotalPrice(t *testing.T) {
	fx := newProposalFixture(t)
	proposal := fx.createProposal(t, 0)

	items, err := fx.svc.SyncItems(context.Background(), proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{itemInput("Boulders", 3, 19.99)},
	})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.InDelta(t, 59.97, items[0].TotalPrice, 0.001)
	assert.Equal(t, pricing.DefaultSectionName, items[0].SectionName)
	assert.Equal(t, "each", items[0].Unit)
	assert.True(t, items[0].IsVisibleToClient)
	assert.True(t, items[0].IsSelectedByClient)
}

func TestProposalService_GetPricingClientModeHidesInternalItems(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0.10)

	hidden := itemInput("Crew overhead", 1, 500)
	visible := false
	hidden.IsVisibleToClient = &visible
	unselected := itemInput("Optional water feature", 1, 2000)
	notSelected := false
	unselected.IsSelectedByClient = &notSelected
	unselected.IsOptional = true

	_, err := fx.svc.SyncItems(ctx, proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{
			itemInput("Lawn prep", 1, 1000),
			hidden,
			unselected,
		},
	})
	require.NoError(t, err)

	clientView, err := fx.svc.GetPricing(ctx, proposal.ID, pricing.ViewModeClient)
	require.NoError(t, err)
	require.Len(t, clientView.Sections, 1)
	assert.Len(t, clientView.Sections[0].Items, 2, "hidden item must not appear in client mode")
	// only the selected line counts toward money
	assert.InDelta(t, 1000.00, clientView.Subtotal, 0.001)
	assert.InDelta(t, 100.00, clientView.TaxAmount, 0.001)
	assert.InDelta(t, 1100.00, clientView.TotalAmount, 0.001)
	for _, line := range clientView.Sections[0].Items {
		if !line.IsSelectedByClient {
			assert.Zero(t, line.LineTotal)
		}
	}

	internalView, err := fx.svc.GetPricing(ctx, proposal.ID, pricing.ViewModeInternal)
	require.NoError(t, err)
	require.Len(t, internalView.Sections, 1)
	assert.Len(t, internalView.Sections[0].Items, 3)
	assert.InDelta(t, 1500.00, internalView.Subtotal, 0.001)
}

func TestProposalService_GetPricingInvalidMode(t *testing.T) {
	fx := newProposalFixture(t)
	proposal := fx.createProposal(t, 0)

	_, err := fx.svc.GetPricing(context.Background(), proposal.ID, pricing.ViewMode("manager"))

	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProposalService_ExportStoresArtifactAndPersistsPath(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0.0825)
	_, err := fx.svc.SyncItems(ctx, proposal.ID, &domain.SyncProposalItemsRequest{
		Items: []domain.ProposalItemInput{itemInput("Sod installation", 4, 25)},
	})
	require.NoError(t, err)

	resp, err := fx.svc.Export(ctx, proposal.ID)

	require.NoError(t, err)
	assert.Equal(t, proposal.ID, resp.ProposalID)
	prefix := fmt.Sprintf("proposals/%s/", proposal.ID)
	assert.True(t, strings.HasPrefix(resp.PDFPath, prefix))
	assert.NotEmpty(t, resp.DownloadURL)

	paths := fx.store.paths()
	require.Len(t, paths, 1)
	assert.Equal(t, resp.PDFPath, paths[0])

	rc, err := fx.store.Download(ctx, resp.PDFPath)
	require.NoError(t, err)
	defer rc.Close()
	head := make([]byte, 4)
	_, err = rc.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(head))

	got, err := fx.svc.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.PDFPath, got.PDFPath)
	require.NotNil(t, got.PDFGeneratedAt)
}

func TestProposalService_ExportMissingTitle(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()

	untitled := &domain.Proposal{Status: domain.ProposalStatusDraft}
	require.NoError(t, fx.db.Create(untitled).Error)

	_, err := fx.svc.Export(ctx, untitled.ID)

	assert.ErrorIs(t, err, pdf.ErrMissingTitle)
	assert.Empty(t, fx.store.paths(), "nothing may be uploaded for an invalid proposal")
}

func TestProposalService_ExportInvalidTaxRate(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()

	bad := &domain.Proposal{Title: "Bad rate", Status: domain.ProposalStatusDraft, TaxRate: 2}
	require.NoError(t, fx.db.Create(bad).Error)

	_, err := fx.svc.Export(ctx, bad.ID)

	assert.ErrorIs(t, err, pricing.ErrInvalidTaxRate)
	assert.Empty(t, fx.store.paths())
}

func TestProposalService_ExportUploadFailureLeavesProposalUntouched(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0)
	fx.store.failUpload = true

	_, err := fx.svc.Export(ctx, proposal.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrArtifactUpload)

	got, err := fx.svc.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PDFPath, "path must only be persisted after a confirmed upload")
	assert.Nil(t, got.PDFGeneratedAt)
}

func TestProposalService_ExportPrunesOldArtifacts(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0)

	// retention is 3; three stale artifacts plus the new export leaves three
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest, err := fx.artifactSvc.Upload(ctx, proposal.ID, base, []byte("old"))
	require.NoError(t, err)
	for i := 1; i < 3; i++ {
		_, err := fx.artifactSvc.Upload(ctx, proposal.ID, base.Add(time.Duration(i)*time.Hour), []byte("old"))
		require.NoError(t, err)
	}

	resp, err := fx.svc.Export(ctx, proposal.ID)
	require.NoError(t, err)

	remaining := fx.store.paths()
	assert.Len(t, remaining, 3)
	assert.Contains(t, remaining, resp.PDFPath)
	assert.NotContains(t, remaining, oldest)
}

func TestProposalService_ExportSurvivesPruneFailure(t *testing.T) {
	fx := newProposalFixture(t)
	ctx := context.Background()
	proposal := fx.createProposal(t, 0)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := fx.artifactSvc.Upload(ctx, proposal.ID, base.Add(time.Duration(i)*time.Hour), []byte("old"))
		require.NoError(t, err)
	}
	fx.store.failDelete = true

	resp, err := fx.svc.Export(ctx, proposal.ID)

	require.NoError(t, err, "a prune failure must not fail the export")
	got, err := fx.svc.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.PDFPath, got.PDFPath)
}

func TestProposalService_ArtifactURLRejectsForeignPath(t *testing.T) {
	fx := newProposalFixture(t)
	proposal := fx.createProposal(t, 0)
	otherPath := fmt.Sprintf("proposals/%s/proposal-x-1.pdf", uuid.New())

	_, err := fx.svc.ArtifactURL(context.Background(), proposal.ID, otherPath)

	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProposalService_ListArtifactsUnknownProposal(t *testing.T) {
	fx := newProposalFixture(t)

	_, err := fx.svc.ListArtifacts(context.Background(), uuid.New())

	assert.ErrorIs(t, err, service.ErrNotFound)
}
