package orderrepo

import (
	"context"
	"errors"
	"time"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ ports.LabOrderRepository   = (*GormLabOrderRepository)(nil)
	_ ports.TestResultRepository = (*GormLabOrderRepository)(nil)
	_ ports.HistoryProvider      = (*GormLabOrderRepository)(nil)
)

// GormLabOrderRepository stores lab orders, their results and serves the
// per-patient test history.
type GormLabOrderRepository struct {
	db *gorm.DB
}

func NewGormLabOrderRepository(db *gorm.DB) *GormLabOrderRepository {
	return &GormLabOrderRepository{db: db}
}

// Add inserts an order together with its parties and catalog tests. Existing
// parties and catalog entries are left as they are.
func (r *GormLabOrderRepository) Add(ctx context.Context, order *laborder.LabOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}

	dto := fromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Patient).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Doctor).Error; err != nil {
			return err
		}
		for _, row := range dto.OrderTests {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row.Test).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(&dto).Error; err != nil {
			return err
		}
		if len(dto.OrderTests) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&dto.OrderTests).Error
	})
}

// Get loads an order with its patient, doctor and rows in row id order.
func (r *GormLabOrderRepository) Get(ctx context.Context, labOrderID int64) (*laborder.LabOrder, error) {
	var dto LabOrderDTO
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("OrderTests", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_tests.id")
		}).
		Preload("OrderTests.Test").
		First(&dto, "id = ?", labOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("labOrderId", labOrderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update writes the whole order, header and every row, in one transaction.
func (r *GormLabOrderRepository) Update(ctx context.Context, order *laborder.LabOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}

	dto := fromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&LabOrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
			"order_date":          dto.OrderDate,
			"status":              dto.Status,
			"payment_status":      dto.PaymentStatus,
			"final_amount":        dto.FinalAmount,
			"scanned_report_path": dto.ScannedReportPath,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("labOrderId", dto.ID)
		}

		for _, row := range dto.OrderTests {
			if err := updateResult(tx, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateResult saves the result fields of a single row.
func (r *GormLabOrderRepository) UpdateResult(ctx context.Context, d draft.TestDraft) error {
	res := d.Result()
	return updateResult(r.db.WithContext(ctx), OrderTestDTO{
		ID:          d.OrderTestID(),
		ResultValue: res.Value,
		ResultUnit:  res.Unit,
		ResultFlag:  res.Flag.String(),
		Notes:       res.Notes,
	})
}

func updateResult(db *gorm.DB, row OrderTestDTO) error {
	result := db.Model(&OrderTestDTO{}).Where("id = ?", row.ID).Updates(map[string]any{
		"result_value": row.ResultValue,
		"result_unit":  row.ResultUnit,
		"result_flag":  row.ResultFlag,
		"notes":        row.Notes,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderTestId", row.ID)
	}
	return nil
}

// TestHistory lists every result the patient has for the test, oldest order first.
func (r *GormLabOrderRepository) TestHistory(ctx context.Context, patientID, testID int64) (history.Series, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			lo.order_date,
			ot.result_value,
			ot.result_unit,
			ot.result_flag
		FROM order_tests ot
		JOIN lab_orders lo ON lo.id = ot.lab_order_id
		WHERE lo.patient_id = ? AND ot.test_id = ?
		ORDER BY lo.order_date, ot.id
	`, patientID, testID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make(history.Series, 0)
	for rows.Next() {
		var (
			orderDate time.Time
			entry     history.Entry
			flag      string
		)
		if err = rows.Scan(&orderDate, &entry.ResultValue, &entry.ResultUnit, &flag); err != nil {
			return nil, err
		}
		entry.OrderDate = orderDate
		entry.ResultFlag = laborder.ResultFlag(flag)
		series = append(series, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return series, nil
}
