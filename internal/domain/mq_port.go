package domain

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
	Close() error
}

type SubscriberPort interface {
	Subscribe(topic, groupID string) (<-chan Message, error)
	Close() error
}
