package domain

// PushSubscriber is one live client connection. The surrounding transport
// only has to deliver a JSON payload and report send failures.
type PushSubscriber interface {
	ID() string
	Send(payload []byte) error
}

// Broadcaster fans a rate event out to every live push subscriber,
// best-effort.
type Broadcaster interface {
	Broadcast(event RateEvent)
}
