package logic

// RequirePayload checks that a product payload was supplied.
func RequirePayload(payload Payload) error {
	if payload == nil {
		return NewInvalidArgument(ErrMsgPayloadRequired)
	}
	return nil
}

// RequireProductID extracts the canonical identity from a payload, rejecting
// payloads without a usable identifier.
func RequireProductID(payload Payload) (ProductID, error) {
	if err := RequirePayload(payload); err != nil {
		return "", err
	}
	if id, ok := payload.ProductID(); ok {
		return id, nil
	}
	raw, ok := payload.rawProductID()
	if !ok {
		return "", NewInvalidArgument(ErrMsgProductIDRequired)
	}
	if _, isString := raw.(string); isString {
		return "", NewInvalidArgument(ErrMsgProductIDRequired)
	}
	return "", NewInvalidArgumentf("%s (got %T)", ErrMsgProductIDInvalid, raw)
}

// RequirePositive checks that a value is positive (greater than zero).
func RequirePositive[T ~int | ~int32 | ~int64](value T, fieldName string) error {
	if value <= 0 {
		return NewInvalidArgument(fieldName + " must be positive")
	}
	return nil
}
