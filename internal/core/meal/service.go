package meal

import (
	"context"
	"errors"

	"mealflow/internal/pkg/common"

	"go.uber.org/zap"
)

// Completer abstracts the external completion collaborator. The real
// implementation lives in the AI service; tests substitute a stub.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service orchestrates one meal recommendation: compile the prompt,
// call the completer, recover the structured result. It holds no state
// across calls.
type Service struct {
	completer Completer
	compiler  *Compiler
}

// NewService creates a meal service using the wall clock for age
// derivation.
func NewService(completer Completer) *Service {
	return &Service{
		completer: completer,
		compiler:  NewCompiler(),
	}
}

// NewServiceWithCompiler creates a meal service with an explicit
// compiler, used by tests to pin the clock.
func NewServiceWithCompiler(completer Completer, compiler *Compiler) *Service {
	return &Service{
		completer: completer,
		compiler:  compiler,
	}
}

// GenerateMeal produces one recommendation for the request. A request
// with no members and no ingredients is rejected before any external
// call.
func (s *Service) GenerateMeal(ctx context.Context, req Request) (*GeneratedMeal, error) {
	if req.Empty() {
		return nil, common.ErrInvalidRequest
	}

	prompt := s.compiler.Compile(req)
	common.LogDebug("compiled meal prompt",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("member_count", len(req.Members)),
		zap.Int("ingredient_count", len(req.Ingredients)),
		zap.String("meal_type", req.MealType),
		zap.String("day_of_week", req.DayOfWeek),
	)

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		var tagged *common.CustomError
		if errors.As(err, &tagged) {
			return nil, err
		}
		return nil, common.NewUpstreamError(err)
	}

	result, err := Recover(raw)
	if err != nil {
		var recErr *RecoveryError
		if errors.As(err, &recErr) {
			common.LogError("completion recovery failed",
				zap.String("reason", string(recErr.Reason)),
				zap.Int("raw_length", len(raw)),
			)
		}
		return nil, err
	}

	return result, nil
}
