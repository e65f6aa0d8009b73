package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticType string

const (
	StatisticTypeDailyCollectionCount  StatisticType = "daily_collection_count"
	StatisticTypeDailyCollectionAmount StatisticType = "daily_collection_amount"
	StatisticTypeTotalCollectionAmount StatisticType = "total_collection_amount"
	StatisticTypeMethodBreakdown       StatisticType = "method_breakdown"
	StatisticTypeDailyVoidCount        StatisticType = "daily_void_count"
)

// Filter fields supported by certain statistic types
type CollectionStatisticFilterType string

const (
	CollectionStatisticFilterTypePaymentMethod CollectionStatisticFilterType = "payment_method"
	CollectionStatisticFilterTypeCollectedBy   CollectionStatisticFilterType = "collected_by"
)

var filterTypes = []CollectionStatisticFilterType{
	CollectionStatisticFilterTypePaymentMethod,
	CollectionStatisticFilterTypeCollectedBy,
}

var validFilters = map[CollectionStatisticFilterType][]StatisticType{
	// method_breakdown already groups by method, filtering it by method is useless
	CollectionStatisticFilterTypePaymentMethod: {
		StatisticTypeDailyCollectionCount,
		StatisticTypeDailyCollectionAmount,
		StatisticTypeTotalCollectionAmount,
		StatisticTypeDailyVoidCount,
	},
	CollectionStatisticFilterTypeCollectedBy: {
		StatisticTypeDailyCollectionCount,
		StatisticTypeDailyCollectionAmount,
		StatisticTypeTotalCollectionAmount,
		StatisticTypeMethodBreakdown,
		StatisticTypeDailyVoidCount,
	},
}

type CollectionStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type CollectionStatisticRequest struct {
	Filters   []*types.CommonFilter          `json:"filters"`
	DataItems []*CollectionStatisticDataItem `json:"data_items"`
}

func (f *CollectionStatisticRequest) GetFilters(statisticType StatisticType) *CollectionStatisticRequest {
	if f == nil || len(f.Filters) == 0 {
		return f
	}
	var result CollectionStatisticRequest
	for _, filter := range f.Filters {
		if statisticTypes, ok := validFilters[CollectionStatisticFilterType(filter.Field)]; ok {
			if lo.Contains(statisticTypes, statisticType) {
				result.Filters = append(result.Filters, filter)
			}
		} else {
			result.Filters = append(result.Filters, filter)
		}
	}
	return &result
}

func (f *CollectionStatisticRequest) Build(builder clause.Builder) {
	if len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type CollectionStatisticResponseDataItem struct {
	Date   string          `json:"date,omitempty"`
	Label  string          `json:"label,omitempty"`
	Value  int64           `json:"value"`
	Amount decimal.Decimal `json:"amount,omitempty"`
}

type CollectionStatisticResponse struct {
	DataItems map[StatisticType][]CollectionStatisticResponseDataItem `json:"data_items"`
}

// Service answers collection statistics queries for admin dashboards.
// DATE() bucketing keeps the SQL valid on both postgres and sqlite.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyCollectionCount(ctx context.Context, request *CollectionStatisticRequest) ([]CollectionStatisticResponseDataItem, error) {
	var results []CollectionStatisticResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("DATE(payment_date) as date, COUNT(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyCollectionCount)}}).
		Where("status = ?", types.PaymentStatusCompleted).
		Group("DATE(payment_date)").
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyCollectionAmount(ctx context.Context, request *CollectionStatisticRequest) ([]CollectionStatisticResponseDataItem, error) {
	var results []CollectionStatisticResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("DATE(payment_date) as date, COUNT(*) as value, SUM(amount_paid) as amount").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyCollectionAmount)}}).
		Where("status = ?", types.PaymentStatusCompleted).
		Group("DATE(payment_date)").
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalCollectionAmount(ctx context.Context, request *CollectionStatisticRequest) ([]CollectionStatisticResponseDataItem, error) {
	var results []CollectionStatisticResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COUNT(*) as value, COALESCE(SUM(amount_paid), 0) as amount").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeTotalCollectionAmount)}}).
		Where("status = ?", types.PaymentStatusCompleted).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getMethodBreakdown(ctx context.Context, request *CollectionStatisticRequest) ([]CollectionStatisticResponseDataItem, error) {
	var results []CollectionStatisticResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("payment_method as label, COUNT(*) as value, SUM(amount_paid) as amount").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeMethodBreakdown)}}).
		Where("status = ?", types.PaymentStatusCompleted).
		Group("payment_method").
		Order("value DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyVoidCount(ctx context.Context, request *CollectionStatisticRequest) ([]CollectionStatisticResponseDataItem, error) {
	var results []CollectionStatisticResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("DATE(updated_at) as date, COUNT(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyVoidCount)}}).
		Where("status = ?", types.PaymentStatusVoided).
		Group("DATE(updated_at)").
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getCollectionStatistic(ctx context.Context, request *CollectionStatisticRequest, dataItem *CollectionStatisticDataItem) ([]CollectionStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyCollectionCount:
		return s.getDailyCollectionCount(ctx, request)
	case StatisticTypeDailyCollectionAmount:
		return s.getDailyCollectionAmount(ctx, request)
	case StatisticTypeTotalCollectionAmount:
		return s.getTotalCollectionAmount(ctx, request)
	case StatisticTypeMethodBreakdown:
		return s.getMethodBreakdown(ctx, request)
	case StatisticTypeDailyVoidCount:
		return s.getDailyVoidCount(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetCollectionStatistic fans the requested data items out in parallel and
// assembles the response map.
func (s *Service) GetCollectionStatistic(ctx context.Context, request *CollectionStatisticRequest) (*CollectionStatisticResponse, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []CollectionStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *CollectionStatisticDataItem) {
			defer wg.Done()
			// check filter applicability
			for _, filter := range request.Filters {
				ft := CollectionStatisticFilterType(filter.Field)
				if lo.Contains(filterTypes, ft) && !lo.Contains(validFilters[ft], di.ID) {
					resChan <- &lo.Entry[StatisticType, []CollectionStatisticResponseDataItem]{Key: di.ID, Value: nil}
					return
				}
			}
			res, err := s.getCollectionStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []CollectionStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]CollectionStatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &CollectionStatisticResponse{DataItems: results}, nil
}
