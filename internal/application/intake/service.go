package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auctionhouse/backend/internal/domain/catalog"
	"github.com/auctionhouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const intakeDateLayout = "2006-01-02"

// DefaultItemStatus is applied to freshly generated items when the status
// exists in the status dictionary.
const DefaultItemStatus = "待上拍"

// Service implements batch intake: transactional, idempotent generation of
// item codes plus the counter and reception bookkeeping on the owning batch.
type Service struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewService creates an intake service.
func NewService(scope TransactionScope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scope: scope, logger: logger}
}

// ParseBatchKey validates and converts the wire form of a batch key.
func ParseBatchKey(intakeDate, consignorCode string) (catalog.BatchKey, error) {
	consignorCode = strings.TrimSpace(consignorCode)
	if consignorCode == "" {
		return catalog.BatchKey{}, shared.NewDomainError("INVALID_INPUT", "consignor code is required")
	}
	d, err := time.Parse(intakeDateLayout, intakeDate)
	if err != nil {
		return catalog.BatchKey{}, shared.NewDomainError("INVALID_INPUT", "intake date must be YYYY-MM-DD")
	}
	return catalog.BatchKey{IntakeDate: d, ConsignorCode: consignorCode}, nil
}

// GenerateItems generates item codes {YYMMDD}_{Consignor}_{i} for i=1..count
// inside one transaction. Codes that already exist are skipped, so re-running
// the same request is a no-op beyond refreshing the reception metadata. The
// batch counter grows by the number of rows actually created.
func (s *Service) GenerateItems(ctx context.Context, req GenerateItemsRequest) (*GenerateItemsResult, error) {
	key, err := ParseBatchKey(req.IntakeDate, req.ConsignorCode)
	if err != nil {
		return nil, err
	}
	if req.Count <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "count must be at least 1")
	}
	if strings.TrimSpace(req.Receiver) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "receiver is required")
	}

	result := &GenerateItemsResult{BatchCode: key.BatchCode()}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Consignors().FindByCode(ctx, key.ConsignorCode); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrConsignorNotFound
			}
			return err
		}

		batch, err := repos.Batches().FindByKey(ctx, key)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			batch = catalog.NewBatch(key, req.Receiver, req.Staff, req.HasPhysicalList)
		case err != nil:
			return err
		default:
			batch.UpdateReception(req.Receiver, req.Staff)
		}

		status := DefaultItemStatus
		created := 0
		for i := 1; i <= req.Count; i++ {
			code := key.ItemCode(i)
			result.ItemCodes = append(result.ItemCodes, code)

			exists, err := repos.Items().Exists(ctx, code)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			item := catalog.NewBlankItem(code, key.ConsignorCode, key.IntakeDate, &status)
			if err := repos.Items().Create(ctx, item); err != nil {
				return fmt.Errorf("create item %s: %w", code, err)
			}
			created++
		}

		batch.AddItems(created)
		result.Created = created
		return repos.Batches().Save(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("generated batch items",
		zap.String("batch_code", result.BatchCode),
		zap.Int("requested", req.Count),
		zap.Int("created", result.Created))
	return result, nil
}

// DeleteItem removes an item and decrements the owning batch's counter,
// clamped at zero. Deleting an unknown code is treated as already done.
func (s *Service) DeleteItem(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_INPUT", "item code is required")
	}

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.Items().FindByCode(ctx, code)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		key := catalog.BatchKey{IntakeDate: item.IntakeDate, ConsignorCode: item.ConsignorCode}
		batch, err := repos.Batches().FindByKey(ctx, key)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if batch != nil {
			batch.RemoveItem()
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return err
			}
		}
		return repos.Items().Delete(ctx, code)
	})
}

// NextConsignorCode returns the next free letter code in Excel order.
func (s *Service) NextConsignorCode(ctx context.Context) (string, error) {
	var next string
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		codes, err := repos.Consignors().ListCodes(ctx)
		if err != nil {
			return err
		}
		maxNum := 0
		for _, c := range codes {
			if n := catalog.CodeToNumber(c); n > maxNum {
				maxNum = n
			}
		}
		next = catalog.NumberToCode(maxNum + 1)
		return nil
	})
	return next, err
}

// ListBatchItems returns the batch's items as listing rows in natural code order.
func (s *Service) ListBatchItems(ctx context.Context, intakeDate, consignorCode string) ([]BatchItemRow, error) {
	key, err := ParseBatchKey(intakeDate, consignorCode)
	if err != nil {
		return nil, err
	}

	var items []*catalog.Item
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err = repos.Items().FindByBatch(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}

	catalog.SortByCode(items, func(i *catalog.Item) string { return i.Code })

	rows := make([]BatchItemRow, 0, len(items))
	for _, it := range items {
		row := BatchItemRow{
			Code:      it.Code,
			ImagePath: it.ImageRef(),
		}
		if it.Name != nil {
			row.Name = *it.Name
		}
		if it.Notes != nil {
			row.Notes = *it.Notes
		}
		if it.StartingPrice != nil {
			v := it.StartingPrice.String()
			row.StartingPrice = &v
		}
		if it.ReservePrice != nil {
			v := it.ReservePrice.String()
			row.ReservePrice = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
