package service

import (
	"time"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
)

type DashboardService interface {
	GetStats(ownerID string) (*repository.DashboardStats, error)
	GetRevenueMovement(ownerID string, days int) ([]repository.RevenueMovementData, error)
	GetRecentTransactions(ownerID string, limit int) ([]model.Transaction, error)
}

type dashboardService struct {
	transactionRepo repository.TransactionRepository
}

func NewDashboardService(tRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{transactionRepo: tRepo}
}

func (s *dashboardService) GetStats(ownerID string) (*repository.DashboardStats, error) {
	return s.transactionRepo.GetDashboardStats(ownerID)
}

func (s *dashboardService) GetRevenueMovement(ownerID string, days int) ([]repository.RevenueMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.transactionRepo.GetRevenueMovement(ownerID, startDate, endDate)
}

func (s *dashboardService) GetRecentTransactions(ownerID string, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.transactionRepo.FindRecent(ownerID, limit)
}
