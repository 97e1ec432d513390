package implementation

import (
	"context"

	"hr-assistant-be/internal/model"
	"hr-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
)

type DocumentEmbeddingRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentEmbeddingRepository(db *gorm.DB) contract.DocumentEmbeddingRepository {
	return &DocumentEmbeddingRepositoryImpl{db: db}
}

// ReplaceBySource deletes and re-inserts one source's chunks in a single
// transaction so searches never observe a partially rebuilt source.
func (r *DocumentEmbeddingRepositoryImpl) ReplaceBySource(ctx context.Context, sourceTable string, rows []*model.DocumentEmbedding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_table = ?", sourceTable).Delete(&model.DocumentEmbedding{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

func (r *DocumentEmbeddingRepositoryImpl) CountBySource(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		SourceTable string
		Total       int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.DocumentEmbedding{}).
		Select("source_table, COUNT(*) as total").
		Group("source_table").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SourceTable] = row.Total
	}
	return counts, nil
}
