package sse

import (
	"context"
	"sync"

	"instapic-ticketing/internal/models"
)

// TicketEventEmitter fans ticket status changes out to the attendees
// watching their ticket page.
type TicketEventEmitter struct {
	// key: ticket code, value: client channels
	clients     map[string][]chan models.TicketEventDto
	clientMutex sync.RWMutex
}

func NewTicketEventEmitter() *TicketEventEmitter {
	return &TicketEventEmitter{
		clients: make(map[string][]chan models.TicketEventDto),
	}
}

// Subscribe registers a client for one ticket. The channel is closed once
// ctx is done.
func (e *TicketEventEmitter) Subscribe(ctx context.Context, ticketCode string) <-chan models.TicketEventDto {
	clientChan := make(chan models.TicketEventDto, 10)

	e.clientMutex.Lock()
	e.clients[ticketCode] = append(e.clients[ticketCode], clientChan)
	e.clientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeClient(ticketCode, clientChan)
	}()

	return clientChan
}

// Emit broadcasts to every subscriber of the event's ticket. Sends never
// block: a client with a full buffer misses the event.
func (e *TicketEventEmitter) Emit(event models.TicketEventDto) {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()

	for _, clientChan := range e.clients[event.TicketCode] {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *TicketEventEmitter) removeClient(ticketCode string, clientChan chan models.TicketEventDto) {
	e.clientMutex.Lock()
	defer e.clientMutex.Unlock()

	clients := e.clients[ticketCode]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[ticketCode] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.clients[ticketCode]) == 0 {
		delete(e.clients, ticketCode)
	}
}

// ClientCount returns the number of clients currently watching a ticket
func (e *TicketEventEmitter) ClientCount(ticketCode string) int {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()
	return len(e.clients[ticketCode])
}
