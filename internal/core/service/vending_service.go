package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/port"
)

var (
	ErrAlreadyInitialized = domain.ErrAlreadyInitialized
	ErrInvalidMessage     = errors.New("invalid message")
	ErrMissingSender      = errors.New("missing sender")
)

// VendingService dispatches decoded requests to the inventory state machine.
// Calls are serialized so that every transition sees the result of the
// previous one.
type VendingService struct {
	mu            sync.Mutex
	store         port.InventoryStore
	movementQueue chan domain.Movement
	closed        bool
}

// NewVendingService creates a service over store. Accepted transitions are
// published on a movement queue of queueSize entries; a queueSize of zero
// disables the journal.
func NewVendingService(store port.InventoryStore, queueSize int) *VendingService {
	s := &VendingService{store: store}
	if queueSize > 0 {
		s.movementQueue = make(chan domain.Movement, queueSize)
	}
	return s
}

func (s *VendingService) Instantiate(ctx context.Context, sender string, msg InstantiateMsg) (Response, error) {
	if sender == "" {
		return Response{}, ErrMissingSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv := domain.Initialize(sender, domain.ItemsCount{
		Chocolate: msg.Chocolate,
		Water:     msg.Water,
		Chips:     msg.Chips,
	})
	if err := s.store.Create(ctx, inv); err != nil {
		return Response{}, err
	}

	s.publish(domain.MethodInstantiate, sender, 0, domain.Inventory{}, inv)

	return newResponse(domain.MethodInstantiate).addAttribute("owner", sender), nil
}

func (s *VendingService) Execute(ctx context.Context, sender string, msg ExecuteMsg) (Response, error) {
	if err := msg.Validate(); err != nil {
		return Response{}, err
	}

	if msg.GetItem != nil {
		return s.GetItem(ctx, sender, msg.GetItem.ItemType)
	}
	return s.Refill(ctx, sender, *msg.Refill)
}

func (s *VendingService) GetItem(ctx context.Context, sender string, item domain.ItemType) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var before domain.Inventory
	after, err := s.store.Update(ctx, func(current domain.Inventory) (domain.Inventory, error) {
		before = current
		return domain.Dispense(current, sender, item)
	})
	if err != nil {
		logRejection(domain.MethodGetItem, sender, err)
		return Response{}, err
	}

	s.publish(domain.MethodGetItem, sender, item, before, after)

	return newResponse(domain.MethodGetItem), nil
}

func (s *VendingService) Refill(ctx context.Context, sender string, msg RefillMsg) (Response, error) {
	delta := msg.Delta()
	if delta.IsZero() {
		logRejection(domain.MethodRefill, sender, domain.ErrInvalidRefillAmount)
		return Response{}, domain.ErrInvalidRefillAmount
	}
	if sender == "" {
		logRejection(domain.MethodRefill, sender, ErrMissingSender)
		return Response{}, ErrMissingSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var before domain.Inventory
	after, err := s.store.Update(ctx, func(current domain.Inventory) (domain.Inventory, error) {
		before = current
		return domain.Refill(current, sender, delta)
	})
	if err != nil {
		logRejection(domain.MethodRefill, sender, err)
		return Response{}, err
	}

	s.publish(domain.MethodRefill, sender, 0, before, after)

	return newResponse(domain.MethodRefill), nil
}

func (s *VendingService) ItemsCount(ctx context.Context) (ItemsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.store.Load(ctx)
	if err != nil {
		return ItemsResponse{}, err
	}

	counts := domain.Query(inv)
	return ItemsResponse{
		Chocolate: counts.Chocolate,
		Water:     counts.Water,
		Chips:     counts.Chips,
	}, nil
}

// Query answers a QueryMsg with its JSON-encoded result.
func (s *VendingService) Query(ctx context.Context, msg QueryMsg) ([]byte, error) {
	if msg.ItemsCount == nil {
		return nil, fmt.Errorf("%w: no query variant set", ErrInvalidMessage)
	}

	resp, err := s.ItemsCount(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}

func (s *VendingService) GetMovementQueue() <-chan domain.Movement {
	return s.movementQueue
}

func (s *VendingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.movementQueue != nil {
		close(s.movementQueue)
	}
}

func logRejection(method domain.Method, sender string, err error) {
	if sender == "" {
		sender = "anonymous"
	}
	log.Printf("%s by %s rejected: %v", method, sender, err)
}

// publish must be called with s.mu held.
func (s *VendingService) publish(method domain.Method, caller string, item domain.ItemType, before, after domain.Inventory) {
	if s.movementQueue == nil || s.closed {
		return
	}

	chocolate, water, chips := domain.Diff(before, after)
	movement := domain.Movement{
		ID:             uuid.New().String(),
		Method:         method,
		Caller:         caller,
		ItemType:       item,
		ChocolateDelta: chocolate,
		WaterDelta:     water,
		ChipsDelta:     chips,
		Result:         domain.Query(after),
		CreatedAt:      time.Now(),
	}

	select {
	case s.movementQueue <- movement:
	default:
		log.Printf("movement queue full, dropping %s movement %s", method, movement.ID)
	}
}
