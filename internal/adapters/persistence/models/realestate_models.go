package models

import (
	"time"
)

// ============================================================
// Real estate records
// ============================================================
//
// Every row carries the owner id stamped from the caller's token.
// UserID is never read from or written to JSON.

// Project is the parent of one parcel, one building and one ledger
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"-"`
	ProjectName string    `gorm:"size:100;not null" json:"projectName"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

// Parcel represents parcels table
type Parcel struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	ProjectID      uint    `gorm:"index;not null" json:"projectId"`
	UserID         uint    `gorm:"index;not null" json:"-"`
	ParcelPrice    int64   `json:"parcelPrice"`
	ParcelAddress  string  `gorm:"size:100" json:"parcelAddress"`
	ParcelCategory string  `gorm:"size:50" json:"parcelCategory"`
	ParcelSize     float64 `json:"parcelSize"`
	ParcelRemark   string  `gorm:"size:100" json:"parcelRemark"`
}

func (Parcel) TableName() string {
	return "parcels"
}

// Building represents buildings table
type Building struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	ProjectID             uint       `gorm:"index;not null" json:"projectId"`
	UserID                uint       `gorm:"index;not null" json:"-"`
	BuildingPrice         int64      `json:"buildingPrice"`
	BuildingAddress       string     `gorm:"size:100" json:"buildingAddress"`
	BuildingAddressNumber string     `gorm:"size:50" json:"buildingAddressNumber"`
	BuildingType          string     `gorm:"size:20" json:"buildingType"`
	BuildingStructure     string     `gorm:"size:20" json:"buildingStructure"`
	BuildingSize          float64    `json:"buildingSize"`
	BuildingDate          *time.Time `gorm:"type:date" json:"buildingDate"`
	BuildingRemark        string     `gorm:"size:100" json:"buildingRemark"`
}

func (Building) TableName() string {
	return "buildings"
}

// IncomeAndExpenses is the monthly ledger of a project
type IncomeAndExpenses struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ProjectID       uint   `gorm:"index;not null" json:"projectId"`
	UserID          uint   `gorm:"index;not null" json:"-"`
	Rent            int    `json:"rent"`
	MaintenanceCost int    `json:"maintenanceCost"`
	RepairFund      int    `json:"repairFund"`
	ManagementFee   int    `json:"managementFee"`
	Principal       int    `json:"principal"`
	Interest        int    `json:"interest"`
	Tax             int    `json:"tax"`
	WaterBill       int    `json:"waterBill"`
	ElectricBill    int    `json:"electricBill"`
	GasBill         int    `json:"gasBill"`
	FireInsurance   int    `json:"fireInsurance"`
	Other           string `gorm:"size:100" json:"other"`
}

func (IncomeAndExpenses) TableName() string {
	return "income_and_expenses"
}

// RealestateDetail groups the four rows of one project
type RealestateDetail struct {
	Project           Project           `json:"project"`
	Parcel            Parcel            `json:"parcel"`
	Building          Building          `json:"building"`
	IncomeAndExpenses IncomeAndExpenses `json:"incomeAndExpenses"`
}

// StampOwner overwrites the owner id of every row
func (d *RealestateDetail) StampOwner(userID uint) {
	d.Project.UserID = userID
	d.Parcel.UserID = userID
	d.Building.UserID = userID
	d.IncomeAndExpenses.UserID = userID
}

// LinkProject points every sub-row at the project id
func (d *RealestateDetail) LinkProject() {
	d.Parcel.ProjectID = d.Project.ID
	d.Building.ProjectID = d.Project.ID
	d.IncomeAndExpenses.ProjectID = d.Project.ID
}

// ReferencesConsistent reports whether every sub-row names the project id
func (d *RealestateDetail) ReferencesConsistent() bool {
	id := d.Project.ID
	return id != 0 &&
		d.Parcel.ProjectID == id &&
		d.Building.ProjectID == id &&
		d.IncomeAndExpenses.ProjectID == id
}

// SearchFilter narrows a listing of the caller's records
type SearchFilter struct {
	UserID            uint
	ProjectName       string
	ParcelAddress     string
	BuildingType      string
	BuildingStructure string
	Financing         *bool
}
