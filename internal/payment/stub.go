package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeclinedTokenPrefix makes the stub decline a charge, for exercising rollbacks.
const DeclinedTokenPrefix = "tok_declined"

var ErrDeclined = errors.New("card declined")

// StubGateway simulates a payment provider that settles immediately.
type StubGateway struct {
	clock utils.Clock
	log   *zap.Logger
}

func NewStubGateway(clock utils.Clock, log *zap.Logger) *StubGateway {
	return &StubGateway{
		clock: clock,
		log:   log.With(zap.String("gateway", "stub")),
	}
}

func (g *StubGateway) Charge(ctx context.Context, req usecase.ChargeRequest) (usecase.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return usecase.ChargeResult{}, err
	}
	if req.Amount <= 0 {
		return usecase.ChargeResult{}, fmt.Errorf("invalid charge amount %s", req.Amount)
	}
	if strings.HasPrefix(req.Token, DeclinedTokenPrefix) {
		return usecase.ChargeResult{}, ErrDeclined
	}

	txRef := fmt.Sprintf("PAY-%s", strings.ToUpper(uuid.NewString()))
	g.log.Info("Charge settled",
		zap.String("reservation_code", req.ReservationCode),
		zap.Stringer("amount", req.Amount),
		zap.String("transaction_id", txRef),
	)

	return usecase.ChargeResult{
		TransactionID: txRef,
		Method:        req.Method,
		PaidAt:        g.clock.Now(),
	}, nil
}

// Void releases a settled charge. The stub only records it in the log.
func (g *StubGateway) Void(ctx context.Context, transactionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(transactionID, "PAY-") {
		return fmt.Errorf("unknown transaction %q", transactionID)
	}

	g.log.Warn("Charge voided", zap.String("transaction_id", transactionID))
	return nil
}
