package errors

import "strings"

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// ChainQueryLimitError represents the provider rejecting a log query
	// because the block range matched too many results.
	ChainQueryLimitError ErrorCode = "chain_query_limit_error"
	// ChainProviderError represents any other failure reported by the
	// chain data provider.
	ChainProviderError ErrorCode = "chain_provider_error"
	// TokenNotRegisteredError represents a token address that the
	// exchange contract has no id for yet.
	TokenNotRegisteredError ErrorCode = "token_not_registered_error"

	// TradeOrphanedReversionsError represents more reversion events than
	// trades observed for a single revert key.
	TradeOrphanedReversionsError ErrorCode = "trade_orphaned_reversions_error"
	// TradeNormalizeError represents a trade event log that could not be
	// converted into a trade record.
	TradeNormalizeError ErrorCode = "trade_normalize_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisHGetError represents an error when getting a field from a hash in Redis.
	RedisHGetError ErrorCode = "redis_hget_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"

	// KafkaPublishError represents an error when publishing a message to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)

// tokenNotRegisteredPattern is the message fragment the exchange
// contract wrapper emits for addresses it has no token id for.
const tokenNotRegisteredPattern = "must have address to get id"

// IsQueryLimit reports whether err is the provider's range-too-large
// rejection, which callers recover from by bisecting the block range.
func IsQueryLimit(err error) bool {
	return ErrorCodeEquals(err, string(ChainQueryLimitError))
}

// IsTokenNotRegistered reports whether err signals an unregistered token.
// The condition is detected either by our own code or by the provider's
// message pattern, since the raw contract error carries no code.
func IsTokenNotRegistered(err error) bool {
	if err == nil {
		return false
	}
	if ErrorCodeEquals(err, string(TokenNotRegisteredError)) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), tokenNotRegisteredPattern)
}
