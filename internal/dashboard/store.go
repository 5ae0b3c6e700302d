package dashboard

import (
	"wellbeing-service/internal/model"

	"gorm.io/gorm"
)

// Store is the read-only query surface the dashboard needs. All
// methods are stateless reads against the relational store; they have
// no data dependency on one another.
type Store interface {
	CountActiveMembers(companyID uint) (int64, error)
	CountDiscAssessments(companyID uint) (int64, error)
	AverageWellbeingScore(companyID uint) (float64, error)
	CountRisksBySeverity(companyID uint, severity int) (int64, error)
	CountRisks(companyID uint) (int64, error)
	CountRisksByStatus(companyID uint, status string) (int64, error)
	ProfileDistribution(companyID uint) (map[string]int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the relational database.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CountActiveMembers(companyID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.User{}).
		Where("company_id = ? AND status = ?", companyID, model.StatusActive).
		Count(&count).Error
	return count, err
}

func (s *gormStore) CountDiscAssessments(companyID uint) (int64, error) {
	// No status filter: every completed row counts.
	var count int64
	err := s.db.Model(&model.DiscAssessment{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (s *gormStore) AverageWellbeingScore(companyID uint) (float64, error) {
	// COALESCE keeps the zero-row result a literal 0, not NULL.
	var avg float64
	err := s.db.Model(&model.MentalHealthAssessment{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(AVG(total_score), 0)").
		Scan(&avg).Error
	return avg, err
}

func (s *gormStore) CountRisksBySeverity(companyID uint, severity int) (int64, error) {
	var count int64
	err := s.db.Model(&model.PsychosocialRisk{}).
		Where("company_id = ? AND severity = ?", companyID, severity).
		Count(&count).Error
	return count, err
}

func (s *gormStore) CountRisks(companyID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.PsychosocialRisk{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (s *gormStore) CountRisksByStatus(companyID uint, status string) (int64, error) {
	var count int64
	err := s.db.Model(&model.PsychosocialRisk{}).
		Where("company_id = ? AND status = ?", companyID, status).
		Count(&count).Error
	return count, err
}

func (s *gormStore) ProfileDistribution(companyID uint) (map[string]int64, error) {
	var rows []struct {
		PrimaryStyle string
		Count        int64
	}
	err := s.db.Model(&model.DiscAssessment{}).
		Where("company_id = ? AND primary_style <> ''", companyID).
		Select("primary_style, COUNT(*) as count").
		Group("primary_style").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int64, len(rows))
	for _, row := range rows {
		distribution[row.PrimaryStyle] = row.Count
	}
	return distribution, nil
}
