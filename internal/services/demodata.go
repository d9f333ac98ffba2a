package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

// demoDataSets are the fixed datasets behind the demo loader. The
// customer_feedback rows are plain strings and go through the unstructured
// (embedding) path; everything else is structured.
var demoDataSets = map[string][]any{
	"sales": {
		map[string]any{"product": "Product A", "revenue": 15000, "quarter": "Q1", "region": "North America"},
		map[string]any{"product": "Product B", "revenue": 22000, "quarter": "Q1", "region": "Europe"},
		map[string]any{"product": "Product A", "revenue": 18000, "quarter": "Q2", "region": "North America"},
		map[string]any{"product": "Product C", "revenue": 12000, "quarter": "Q2", "region": "Asia"},
		map[string]any{"product": "Product B", "revenue": 25000, "quarter": "Q2", "region": "Europe"},
	},
	"customer_feedback": {
		"The product quality is excellent, but delivery was slow",
		"Great customer service experience, very responsive team",
		"Price point is competitive, would recommend to others",
		"User interface could be improved for better usability",
		"Overall satisfaction is high, will purchase again",
	},
	"financial_metrics": {
		map[string]any{"metric": "Revenue Growth", "value": 15.2, "period": "2024-Q2", "target": 12.0},
		map[string]any{"metric": "Customer Acquisition Cost", "value": 45.50, "period": "2024-Q2", "target": 50.00},
		map[string]any{"metric": "Churn Rate", "value": 3.2, "period": "2024-Q2", "target": 5.0},
		map[string]any{"metric": "Profit Margin", "value": 22.8, "period": "2024-Q2", "target": 20.0},
	},
}

var demoDataDescriptions = map[string]string{
	"sales":             "Quarterly sales data with revenue metrics by product and region",
	"customer_feedback": "Unstructured customer feedback for sentiment analysis",
	"financial_metrics": "Key financial KPIs with targets and actuals",
}

type DemoLoadResult struct {
	Message string `json:"message"`
	Records int    `json:"records"`
	Dataset string `json:"dataset"`
}

type DemoDataInfo struct {
	AvailableDatasets []string          `json:"availableDatasets"`
	Description       string            `json:"description"`
	Datasets          map[string]string `json:"datasets"`
}

type DemoDataService interface {
	Load(ctx context.Context, dataset string) (*DemoLoadResult, error)
	Describe() *DemoDataInfo
}

type demoDataService struct {
	db          *gorm.DB
	log         *logger.Logger
	dataService DataService
}

func NewDemoDataService(db *gorm.DB, log *logger.Logger, dataService DataService) DemoDataService {
	serviceLog := log.With("service", "DemoDataService")
	return &demoDataService{db: db, log: serviceLog, dataService: dataService}
}

func (dds *demoDataService) Load(ctx context.Context, dataset string) (*DemoLoadResult, error) {
	rows, found := demoDataSets[dataset]
	if !found {
		return nil, apierr.Validation("invalid dataset specified")
	}

	metadata, err := json.Marshal(map[string]any{"dataset": dataset, "demo": true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode demo metadata: %w", err)
	}

	loaded := 0
	for _, row := range rows {
		content, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to encode demo row: %w", err)
		}
		dtype := types.DataTypeStructured
		if _, isText := row.(string); isText {
			dtype = types.DataTypeUnstructured
		}
		if _, err := dds.dataService.Ingest(ctx, "demo_"+dataset, dtype, content, metadata); err != nil {
			return nil, err
		}
		loaded++
	}

	return &DemoLoadResult{
		Message: fmt.Sprintf("Successfully loaded %d records from %s dataset", loaded, dataset),
		Records: loaded,
		Dataset: dataset,
	}, nil
}

func (dds *demoDataService) Describe() *DemoDataInfo {
	names := make([]string, 0, len(demoDataSets))
	for name := range demoDataSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return &DemoDataInfo{
		AvailableDatasets: names,
		Description:       "Load demo datasets to showcase LucidBI capabilities",
		Datasets:          demoDataDescriptions,
	}
}
