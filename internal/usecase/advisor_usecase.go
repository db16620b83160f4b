package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// AdvisorUseCase shopping assistant conversations
type AdvisorUseCase interface {
	// Ask always returns displayable text
	Ask(ctx context.Context, userID int64, username, prompt string) string
	GetHistory(ctx context.Context, userID int64) ([]entity.AdviceRecord, error)
	GetAllRecords(ctx context.Context, limit int) ([]entity.AdviceRecord, error)
	ClearHistory(ctx context.Context, userID int64) error
}

type advisorUseCase struct {
	advisor   repository.Advisor
	adviceLog repository.AdviceLogRepository
	products  ProductUseCase
	log       logrus.FieldLogger
}

// NewAdvisorUseCase advisor use case. products may be nil, then prompts go
// to the model without catalog context.
func NewAdvisorUseCase(
	advisor repository.Advisor,
	adviceLog repository.AdviceLogRepository,
	products ProductUseCase,
	log logrus.FieldLogger,
) AdvisorUseCase {
	return &advisorUseCase{
		advisor:   advisor,
		adviceLog: adviceLog,
		products:  products,
		log:       log,
	}
}

func (u *advisorUseCase) Ask(ctx context.Context, userID int64, username, prompt string) string {
	advice := u.advisor.Advise(ctx, u.enrich(ctx, prompt))

	record := entity.AdviceRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Prompt:    prompt, // stored without the catalog digest
		Response:  advice.Text,
		Outcome:   advice.Outcome,
		Timestamp: time.Now(),
	}
	if err := u.adviceLog.Save(ctx, record); err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("failed to store advice record")
	}

	u.log.WithFields(logrus.Fields{
		"user_id": userID,
		"outcome": advice.Outcome,
	}).Info("advisor request served")

	return advice.Text
}

// enrich prepends the current catalog so the model recommends stocked items
func (u *advisorUseCase) enrich(ctx context.Context, prompt string) string {
	if u.products == nil {
		return prompt
	}
	digest, err := u.products.GetProductsAsText(ctx)
	if err != nil || digest == "" {
		return prompt
	}
	return fmt.Sprintf(`Customer question: %s

Products currently in the wholesale catalog:
%s
Recommend only products from this list and quote their catalog prices exactly.`, prompt, digest)
}

func (u *advisorUseCase) GetHistory(ctx context.Context, userID int64) ([]entity.AdviceRecord, error) {
	return u.adviceLog.GetHistory(ctx, userID, 0)
}

func (u *advisorUseCase) GetAllRecords(ctx context.Context, limit int) ([]entity.AdviceRecord, error) {
	return u.adviceLog.GetAll(ctx, limit)
}

func (u *advisorUseCase) ClearHistory(ctx context.Context, userID int64) error {
	return u.adviceLog.ClearHistory(ctx, userID)
}
