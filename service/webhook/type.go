package webhook

// IService is the best-effort alert side channel.
type IService interface {
	Post(payload map[string]interface{}) error
}
