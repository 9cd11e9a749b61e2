package handler

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/vending-machine/internal/adapter/handler/rpc"
	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/core/service"
)

type GRPCHandler struct {
	rpc.UnimplementedVendingMachineServer
	vendingService *service.VendingService
}

func NewGRPCHandler(vendingService *service.VendingService) *GRPCHandler {
	return &GRPCHandler{vendingService: vendingService}
}

func (h *GRPCHandler) Instantiate(ctx context.Context, req *rpc.InstantiateRequest) (*rpc.ExecuteResponse, error) {
	resp, err := h.vendingService.Instantiate(ctx, rpc.SenderFromContext(ctx), service.InstantiateMsg{
		Chocolate: req.Chocolate,
		Water:     req.Water,
		Chips:     req.Chips,
	})
	if err != nil {
		return nil, grpcError("Instantiate", err)
	}
	return toExecuteResponse(resp), nil
}

func (h *GRPCHandler) GetItem(ctx context.Context, req *rpc.GetItemRequest) (*rpc.ExecuteResponse, error) {
	item, err := domain.ParseItemType(req.ItemType)
	if err != nil {
		return nil, grpcError("GetItem", err)
	}

	resp, err := h.vendingService.GetItem(ctx, rpc.SenderFromContext(ctx), item)
	if err != nil {
		return nil, grpcError("GetItem", err)
	}
	return toExecuteResponse(resp), nil
}

func (h *GRPCHandler) Refill(ctx context.Context, req *rpc.RefillRequest) (*rpc.ExecuteResponse, error) {
	resp, err := h.vendingService.Refill(ctx, rpc.SenderFromContext(ctx), service.RefillMsg{
		Chocolate: req.Chocolate,
		Water:     req.Water,
		Chips:     req.Chips,
	})
	if err != nil {
		return nil, grpcError("Refill", err)
	}
	return toExecuteResponse(resp), nil
}

func (h *GRPCHandler) ItemsCount(ctx context.Context, _ *rpc.ItemsCountRequest) (*rpc.ItemsCountResponse, error) {
	counts, err := h.vendingService.ItemsCount(ctx)
	if err != nil {
		return nil, grpcError("ItemsCount", err)
	}
	return &rpc.ItemsCountResponse{
		Chocolate: counts.Chocolate,
		Water:     counts.Water,
		Chips:     counts.Chips,
	}, nil
}

func toExecuteResponse(resp service.Response) *rpc.ExecuteResponse {
	out := &rpc.ExecuteResponse{Attributes: make([]rpc.Attribute, 0, len(resp.Attributes))}
	for _, attr := range resp.Attributes {
		out.Attributes = append(out.Attributes, rpc.Attribute{Key: attr.Key, Value: attr.Value})
	}
	return out
}

func grpcError(method string, err error) error {
	_, code := classify(err)
	if code == codes.Internal {
		log.Printf("%s failed: %v", method, err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
