package store

import (
	"fmt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Saver persists opportunities; Dao is the mysql implementation.
type Saver interface {
	SaveOpportunity(op *Opportunity) error
	SaveCrossPoolOpportunity(op *CrossPoolOpportunity) error
}

type Dao struct {
	db *gorm.DB
}

func NewDao(url, scheme, user, passwd string) (*Dao, error) {
	dao := &Dao{}
	Logger := logger.Default
	Logger = Logger.LogMode(logger.Warn)
	db, err := gorm.Open(mysql.Open(user+":"+passwd+"@tcp("+url+")/"+
		scheme+"?charset=utf8"), &gorm.Config{Logger: Logger})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	err = db.AutoMigrate(&Opportunity{}, &OpportunityStep{}, &CrossPoolOpportunity{})
	if err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	dao.db = db
	return dao, nil
}

func (dao *Dao) SaveOpportunity(op *Opportunity) error {
	return dao.db.Create(op).Error
}

func (dao *Dao) SaveCrossPoolOpportunity(op *CrossPoolOpportunity) error {
	return dao.db.Create(op).Error
}

func (dao *Dao) SelectOpportunity(id uint64) ([]*Opportunity, error) {
	opportunities := make([]*Opportunity, 0)
	res := dao.db.Where("id = ?", id).Preload("OpportunitySteps").Find(&opportunities)
	return opportunities, res.Error
}

// SelectRecentOpportunities returns the newest rows first.
func (dao *Dao) SelectRecentOpportunities(limit int) ([]*Opportunity, error) {
	opportunities := make([]*Opportunity, 0)
	res := dao.db.Order("id desc").Limit(limit).Preload("OpportunitySteps").Find(&opportunities)
	return opportunities, res.Error
}

func (dao *Dao) SelectCrossPoolOpportunity(id uint64) ([]*CrossPoolOpportunity, error) {
	opportunities := make([]*CrossPoolOpportunity, 0)
	res := dao.db.Where("id = ?", id).Find(&opportunities)
	return opportunities, res.Error
}
