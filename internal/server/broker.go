package server

import "sync"

// Broker is an in-process pub/sub for channel events. Every websocket
// connection holds one subscription; sessions map onto rooms so roster
// and progress updates reach only that race, while leaderboard events
// go to every connection.
type Broker struct {
	mu    sync.RWMutex
	subs  map[chan []byte]struct{}
	rooms map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs:  make(map[chan []byte]struct{}),
		rooms: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe registers a new connection and returns its outbound
// channel. Delivery on one channel is ordered.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 32)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a connection from the broker and from every room
// it joined.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	for room, members := range b.rooms {
		delete(members, ch)
		if len(members) == 0 {
			delete(b.rooms, room)
		}
	}
	b.mu.Unlock()
}

// JoinRoom adds a subscribed connection to a session's room.
func (b *Broker) JoinRoom(room string, ch chan []byte) {
	b.mu.Lock()
	if b.rooms[room] == nil {
		b.rooms[room] = make(map[chan []byte]struct{})
	}
	b.rooms[room][ch] = struct{}{}
	b.mu.Unlock()
}

// CloseRoom drops a room's membership once its session is destroyed.
// The connections themselves stay subscribed.
func (b *Broker) CloseRoom(room string) {
	b.mu.Lock()
	delete(b.rooms, room)
	b.mu.Unlock()
}

// PublishRoom sends data to every member of the room.
func (b *Broker) PublishRoom(room string, data []byte) {
	b.mu.RLock()
	for ch := range b.rooms[room] {
		send(ch, data)
	}
	b.mu.RUnlock()
}

// PublishAll sends data to every connected subscriber.
func (b *Broker) PublishAll(data []byte) {
	b.mu.RLock()
	for ch := range b.subs {
		send(ch, data)
	}
	b.mu.RUnlock()
}

func send(ch chan []byte, data []byte) {
	select {
	case ch <- data:
	default:
		// Drop if subscriber is slow.
	}
}
