package tokens

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/cache"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// Usecase manages the token list: the in-memory cache that the trade
// and order book pipelines read, and the redis-persisted user-added
// tokens layered on top of it.
type Usecase struct {
	provider chain.Provider
	tokens   *tokenv1.ListCache
	store    *cache.Store
	logger   logger.Interface
}

// NewUsecase creates a new tokens usecase.
func NewUsecase(
	provider chain.Provider,
	tokens *tokenv1.ListCache,
	store *cache.Store,
	logger logger.Interface,
) *Usecase {
	return &Usecase{
		provider: provider,
		tokens:   tokens,
		store:    store,
		logger:   logger,
	}
}

// Registered reports whether the exchange contract has listed the token
// yet. The contract signals an unlisted address through a message
// pattern rather than an error code; that condition is expected and not
// a failure.
func (u *Usecase) Registered(ctx context.Context, address common.Address) (uint16, bool, error) {
	id, err := u.provider.TokenIDByAddress(ctx, address)
	if err != nil {
		if errors.IsTokenNotRegistered(err) {
			return 0, false, nil
		}
		return 0, false, errors.TracerFromError(err)
	}
	return id, true, nil
}

// AddUserToken persists a user-added token and makes it visible to the
// pipelines. An unregistered token is stored too; it gets its exchange
// id once listed.
func (u *Usecase) AddUserToken(ctx context.Context, token *tokenv1.TokenDetails) error {
	id, registered, err := u.Registered(ctx, token.Address)
	if err != nil {
		return err
	}
	if registered {
		token.ID = id
	} else {
		u.logger.InfoContext(ctx, "token not listed on the exchange yet",
			logger.Field{Key: "address", Value: token.Address.Hex()},
		)
	}

	if err := u.store.PutUserToken(ctx, token); err != nil {
		return errors.TracerFromError(err)
	}
	u.tokens.Upsert(token)
	return nil
}

// RemoveUserToken deletes a user-added token from persistence. The
// in-memory cache keeps serving it until the next restart if the
// exchange still lists it.
func (u *Usecase) RemoveUserToken(ctx context.Context, address common.Address) error {
	if err := u.store.DeleteUserToken(ctx, address); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// LoadUserTokens restores persisted user-added tokens into the cache,
// called once at startup.
func (u *Usecase) LoadUserTokens(ctx context.Context) error {
	tokens, err := u.store.GetUserTokens(ctx)
	if err != nil {
		return errors.TracerFromError(err)
	}
	for _, token := range tokens {
		u.tokens.Upsert(token)
	}

	u.logger.InfoContext(ctx, "user tokens restored",
		logger.Field{Key: "count", Value: len(tokens)},
	)
	return nil
}
