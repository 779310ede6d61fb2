package services

import (
	"context"
	"errors"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/metrics"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxAmount = 1000000000

var (
	maxPrice        = int64(1000000000000000)
	minBuildingDate = time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	maxBuildingDate = time.Date(2999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// RealestateService serves the caller's real estate records.
// The owner id always comes from the caller's identity, never from the payload.
type RealestateService struct {
	repo    repositories.RealestateRepository
	txm     repositories.TxManager
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewRealestateService creates a new real estate service
func NewRealestateService(
	repo repositories.RealestateRepository,
	txm repositories.TxManager,
	m *metrics.Metrics,
	log *zap.Logger,
) *RealestateService {
	return &RealestateService{
		repo:    repo,
		txm:     txm,
		metrics: m,
		log:     log,
	}
}

// SearchParams narrows a listing. Empty fields do not filter.
type SearchParams struct {
	ProjectName       string `query:"searchProjectName"`
	ParcelAddress     string `query:"searchParcelAddress"`
	BuildingType      string `query:"searchBuildingType"`
	BuildingStructure string `query:"searchBuildingStructure"`
	Financing         *bool  `query:"searchFinancing"`
}

// Validate checks search params
func (p SearchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ProjectName, validation.RuneLength(0, 100)),
		validation.Field(&p.ParcelAddress, validation.RuneLength(0, 100)),
		validation.Field(&p.BuildingType, validation.In(domain.BuildingTypes...)),
		validation.Field(&p.BuildingStructure, validation.In(domain.BuildingStructures...)),
	)
}

// Search lists the caller's records
func (s *RealestateService) Search(ctx context.Context, identity domain.Identity, params SearchParams) ([]*models.RealestateDetail, error) {
	if err := params.Validate(); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	return s.repo.Search(ctx, models.SearchFilter{
		UserID:            identity.UserID,
		ProjectName:       params.ProjectName,
		ParcelAddress:     params.ParcelAddress,
		BuildingType:      params.BuildingType,
		BuildingStructure: params.BuildingStructure,
		Financing:         params.Financing,
	})
}

// Get returns one record owned by the caller
func (s *RealestateService) Get(ctx context.Context, identity domain.Identity, projectID uint) (*models.RealestateDetail, error) {
	detail, err := s.repo.GetByProjectID(ctx, projectID, identity.UserID)
	if err != nil {
		return nil, s.notFound(err, identity, projectID)
	}
	return detail, nil
}

// Register stores a new record owned by the caller
func (s *RealestateService) Register(ctx context.Context, identity domain.Identity, detail *models.RealestateDetail) (*models.RealestateDetail, error) {
	if err := ValidateDetail(detail); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	detail.Project.ID = 0
	detail.Parcel.ID = 0
	detail.Building.ID = 0
	detail.IncomeAndExpenses.ID = 0
	detail.StampOwner(identity.UserID)

	err := s.txm.WithTx(ctx, func(repos repositories.Repositories) error {
		return repos.Realestate.Create(ctx, detail)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("realestate registered", zap.Uint("user_id", identity.UserID), zap.Uint("project_id", detail.Project.ID))
	return detail, nil
}

// Update overwrites a record owned by the caller.
// Sub-rows must all reference the project id; a row owned by someone else is reported as not found.
func (s *RealestateService) Update(ctx context.Context, identity domain.Identity, detail *models.RealestateDetail) (*models.RealestateDetail, error) {
	if detail.Project.ID == 0 {
		return nil, domain.NewError(domain.KindValidation, "project id is required")
	}
	if !detail.ReferencesConsistent() {
		return nil, domain.NewError(domain.KindInconsistentProjectReference, "parcel, building and income/expenses must reference the same project")
	}
	if err := ValidateDetail(detail); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	detail.StampOwner(identity.UserID)

	err := s.txm.WithTx(ctx, func(repos repositories.Repositories) error {
		return repos.Realestate.Update(ctx, detail)
	})
	if err != nil {
		return nil, s.notFound(err, identity, detail.Project.ID)
	}

	return detail, nil
}

// Delete removes a record owned by the caller
func (s *RealestateService) Delete(ctx context.Context, identity domain.Identity, projectID uint) error {
	err := s.txm.WithTx(ctx, func(repos repositories.Repositories) error {
		return repos.Realestate.Delete(ctx, projectID, identity.UserID)
	})
	if err != nil {
		return s.notFound(err, identity, projectID)
	}

	s.log.Info("realestate deleted", zap.Uint("user_id", identity.UserID), zap.Uint("project_id", projectID))
	return nil
}

func (s *RealestateService) notFound(err error, identity domain.Identity, projectID uint) error {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	s.metrics.ObserveOwnershipDenial()
	s.log.Warn("realestate not found for caller",
		zap.Uint("user_id", identity.UserID),
		zap.Uint("project_id", projectID),
	)
	return domain.NewError(domain.KindResourceNotFound, domain.MsgRealestateNotFound)
}

// ValidateDetail checks field ranges of all four rows
func ValidateDetail(d *models.RealestateDetail) error {
	if err := validation.ValidateStruct(&d.Project,
		validation.Field(&d.Project.ProjectName, validation.Required, validation.RuneLength(1, 100)),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&d.Parcel,
		validation.Field(&d.Parcel.ParcelPrice, validation.Min(0), validation.Max(maxPrice)),
		validation.Field(&d.Parcel.ParcelAddress, validation.RuneLength(0, 100)),
		validation.Field(&d.Parcel.ParcelCategory, validation.RuneLength(0, 50)),
		validation.Field(&d.Parcel.ParcelSize, validation.Min(0.0), validation.Max(float64(maxAmount))),
		validation.Field(&d.Parcel.ParcelRemark, validation.RuneLength(0, 100)),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&d.Building,
		validation.Field(&d.Building.BuildingPrice, validation.Min(0), validation.Max(maxPrice)),
		validation.Field(&d.Building.BuildingAddress, validation.RuneLength(0, 100)),
		validation.Field(&d.Building.BuildingAddressNumber, validation.RuneLength(0, 50)),
		validation.Field(&d.Building.BuildingType, validation.In(domain.BuildingTypes...)),
		validation.Field(&d.Building.BuildingStructure, validation.In(domain.BuildingStructures...)),
		validation.Field(&d.Building.BuildingSize, validation.Min(0.0), validation.Max(float64(maxAmount))),
		validation.Field(&d.Building.BuildingDate, validation.By(buildingDateInRange)),
		validation.Field(&d.Building.BuildingRemark, validation.RuneLength(0, 100)),
	); err != nil {
		return err
	}

	l := &d.IncomeAndExpenses
	amount := []validation.Rule{validation.Min(0), validation.Max(maxAmount)}
	return validation.ValidateStruct(l,
		validation.Field(&l.Rent, amount...),
		validation.Field(&l.MaintenanceCost, amount...),
		validation.Field(&l.RepairFund, amount...),
		validation.Field(&l.ManagementFee, amount...),
		validation.Field(&l.Principal, amount...),
		validation.Field(&l.Interest, amount...),
		validation.Field(&l.Tax, amount...),
		validation.Field(&l.WaterBill, amount...),
		validation.Field(&l.ElectricBill, amount...),
		validation.Field(&l.GasBill, amount...),
		validation.Field(&l.FireInsurance, amount...),
		validation.Field(&l.Other, validation.RuneLength(0, 100)),
	)
}

func buildingDateInRange(value interface{}) error {
	date, _ := value.(*time.Time)
	if date == nil {
		return nil
	}
	if date.Before(minBuildingDate) || date.After(maxBuildingDate) {
		return errors.New("must be between 1000-01-01 and 2999-12-31")
	}
	return nil
}
