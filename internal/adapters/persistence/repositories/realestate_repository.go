package repositories

import (
	"context"

	"realestate-management/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// realestateRepository implements RealestateRepository interface.
// Writes touching several tables expect to run inside TxManager.WithTx.
type realestateRepository struct {
	db *gorm.DB
}

// NewRealestateRepository creates a new real estate repository
func NewRealestateRepository(db *gorm.DB) RealestateRepository {
	return &realestateRepository{db: db}
}

// Search lists the owner's records matching the filter, ordered by project id
func (r *realestateRepository) Search(ctx context.Context, filter models.SearchFilter) ([]*models.RealestateDetail, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN parcels ON parcels.project_id = projects.id").
		Joins("JOIN buildings ON buildings.project_id = projects.id").
		Joins("JOIN income_and_expenses ON income_and_expenses.project_id = projects.id").
		Where("projects.user_id = ?", filter.UserID)

	if filter.ProjectName != "" {
		query = query.Where("projects.project_name LIKE ?", "%"+filter.ProjectName+"%")
	}
	if filter.ParcelAddress != "" {
		query = query.Where("parcels.parcel_address LIKE ?", "%"+filter.ParcelAddress+"%")
	}
	if filter.BuildingType != "" {
		query = query.Where("buildings.building_type = ?", filter.BuildingType)
	}
	if filter.BuildingStructure != "" {
		query = query.Where("buildings.building_structure = ?", filter.BuildingStructure)
	}
	if filter.Financing != nil {
		if *filter.Financing {
			query = query.Where("income_and_expenses.principal > 0")
		} else {
			query = query.Where("income_and_expenses.principal = 0")
		}
	}

	var ids []uint
	if err := query.Order("projects.id ASC").Pluck("projects.id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.RealestateDetail{}, nil
	}

	return r.loadDetails(ctx, filter.UserID, ids)
}

// GetByProjectID gets one record owned by userID
func (r *realestateRepository) GetByProjectID(ctx context.Context, projectID, userID uint) (*models.RealestateDetail, error) {
	details, err := r.loadDetails(ctx, userID, []uint{projectID})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return details[0], nil
}

func (r *realestateRepository) loadDetails(ctx context.Context, userID uint, ids []uint) ([]*models.RealestateDetail, error) {
	db := r.db.WithContext(ctx)

	var projects []models.Project
	if err := db.Where("id IN ? AND user_id = ?", ids, userID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	var parcels []models.Parcel
	if err := db.Where("project_id IN ? AND user_id = ?", ids, userID).Find(&parcels).Error; err != nil {
		return nil, err
	}
	var buildings []models.Building
	if err := db.Where("project_id IN ? AND user_id = ?", ids, userID).Find(&buildings).Error; err != nil {
		return nil, err
	}
	var ledgers []models.IncomeAndExpenses
	if err := db.Where("project_id IN ? AND user_id = ?", ids, userID).Find(&ledgers).Error; err != nil {
		return nil, err
	}

	byProject := make(map[uint]*models.RealestateDetail, len(projects))
	details := make([]*models.RealestateDetail, 0, len(projects))
	for _, p := range projects {
		d := &models.RealestateDetail{Project: p}
		byProject[p.ID] = d
		details = append(details, d)
	}
	for _, p := range parcels {
		if d, ok := byProject[p.ProjectID]; ok {
			d.Parcel = p
		}
	}
	for _, b := range buildings {
		if d, ok := byProject[b.ProjectID]; ok {
			d.Building = b
		}
	}
	for _, l := range ledgers {
		if d, ok := byProject[l.ProjectID]; ok {
			d.IncomeAndExpenses = l
		}
	}

	return details, nil
}

// Create inserts the project then its three sub-rows linked to the new project id
func (r *realestateRepository) Create(ctx context.Context, detail *models.RealestateDetail) error {
	db := r.db.WithContext(ctx)

	if err := db.Create(&detail.Project).Error; err != nil {
		return err
	}
	detail.LinkProject()

	if err := db.Create(&detail.Parcel).Error; err != nil {
		return err
	}
	if err := db.Create(&detail.Building).Error; err != nil {
		return err
	}
	return db.Create(&detail.IncomeAndExpenses).Error
}

// Update overwrites all four rows of a project owned by detail's owner.
// A table with no matching (project id, owner id) row yields gorm.ErrRecordNotFound.
func (r *realestateRepository) Update(ctx context.Context, detail *models.RealestateDetail) error {
	db := r.db.WithContext(ctx)
	projectID, userID := detail.Project.ID, detail.Project.UserID

	steps := []struct {
		model  interface{}
		where  string
		fields map[string]interface{}
	}{
		{&models.Project{}, "id = ? AND user_id = ?", projectColumns(&detail.Project)},
		{&models.Parcel{}, "project_id = ? AND user_id = ?", parcelColumns(&detail.Parcel)},
		{&models.Building{}, "project_id = ? AND user_id = ?", buildingColumns(&detail.Building)},
		{&models.IncomeAndExpenses{}, "project_id = ? AND user_id = ?", ledgerColumns(&detail.IncomeAndExpenses)},
	}

	for _, step := range steps {
		result := db.Model(step.model).Where(step.where, projectID, userID).Updates(step.fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a project owned by userID together with its sub-rows
func (r *realestateRepository) Delete(ctx context.Context, projectID, userID uint) error {
	db := r.db.WithContext(ctx)

	result := db.Where("id = ? AND user_id = ?", projectID, userID).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, model := range []interface{}{&models.Parcel{}, &models.Building{}, &models.IncomeAndExpenses{}} {
		if err := db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteAllByUserID removes every record owned by userID
func (r *realestateRepository) DeleteAllByUserID(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	for _, model := range []interface{}{&models.Parcel{}, &models.Building{}, &models.IncomeAndExpenses{}, &models.Project{}} {
		if err := db.Where("user_id = ?", userID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func projectColumns(p *models.Project) map[string]interface{} {
	return map[string]interface{}{
		"project_name": p.ProjectName,
	}
}

func parcelColumns(p *models.Parcel) map[string]interface{} {
	return map[string]interface{}{
		"parcel_price":    p.ParcelPrice,
		"parcel_address":  p.ParcelAddress,
		"parcel_category": p.ParcelCategory,
		"parcel_size":     p.ParcelSize,
		"parcel_remark":   p.ParcelRemark,
	}
}

func buildingColumns(b *models.Building) map[string]interface{} {
	return map[string]interface{}{
		"building_price":          b.BuildingPrice,
		"building_address":        b.BuildingAddress,
		"building_address_number": b.BuildingAddressNumber,
		"building_type":           b.BuildingType,
		"building_structure":      b.BuildingStructure,
		"building_size":           b.BuildingSize,
		"building_date":           b.BuildingDate,
		"building_remark":         b.BuildingRemark,
	}
}

func ledgerColumns(l *models.IncomeAndExpenses) map[string]interface{} {
	return map[string]interface{}{
		"rent":             l.Rent,
		"maintenance_cost": l.MaintenanceCost,
		"repair_fund":      l.RepairFund,
		"management_fee":   l.ManagementFee,
		"principal":        l.Principal,
		"interest":         l.Interest,
		"tax":              l.Tax,
		"water_bill":       l.WaterBill,
		"electric_bill":    l.ElectricBill,
		"gas_bill":         l.GasBill,
		"fire_insurance":   l.FireInsurance,
		"other":            l.Other,
	}
}
