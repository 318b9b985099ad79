package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tair/inventory-analytics/internal/inventory/usecase/command"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/query"
)

// ListItems godoc
// @Summary List inventory items
// @Description Get inventory items with pagination, optionally restricted to categories
// @Tags Items
// @Produce json
// @Param limit query int false "Limit (default 10, max 100)"
// @Param offset query int false "Offset"
// @Param category query []string false "Category filter, repeated or comma separated"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/inventory/items [get]
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.queries.ListItems.Handle(r.Context(), query.ListItemsQuery{
		Limit:      limit,
		Offset:     offset,
		Categories: listParam(r, "category"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// CreateItem godoc
// @Summary Create inventory item
// @Tags Items
// @Accept json
// @Produce json
// @Param request body object{name=string,sku=string,category_name=string,current_stock=number,cost=number,reorder_point=number,safety_stock=number} true "Item data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/items [post]
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name"`
		SKU          string   `json:"sku"`
		CategoryName string   `json:"category_name"`
		CurrentStock float64  `json:"current_stock"`
		Cost         *float64 `json:"cost"`
		ReorderPoint *float64 `json:"reorder_point"`
		SafetyStock  *float64 `json:"safety_stock"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	item, err := h.commands.CreateItem.Handle(r.Context(), command.CreateItemCommand{
		Name:         req.Name,
		SKU:          req.SKU,
		CategoryName: req.CategoryName,
		CurrentStock: req.CurrentStock,
		Cost:         req.Cost,
		ReorderPoint: req.ReorderPoint,
		SafetyStock:  req.SafetyStock,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item created successfully",
		Data:    item,
	})
}

// GetItem godoc
// @Summary Get inventory item by ID
// @Tags Items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Invalid item ID")
		return
	}

	item, err := h.queries.GetItem.Handle(r.Context(), query.GetItemQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// UpdateItem godoc
// @Summary Update inventory item
// @Description Partial update; omitted fields keep their value, null clears cost and thresholds
// @Tags Items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{name=string,category_name=string,cost=number,reorder_point=number,safety_stock=number} true "Fields to change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/items/{id} [patch]
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Invalid item ID")
		return
	}

	var req struct {
		Name         *string       `json:"name"`
		CategoryName *string       `json:"category_name"`
		Cost         nullableFloat `json:"cost"`
		ReorderPoint nullableFloat `json:"reorder_point"`
		SafetyStock  nullableFloat `json:"safety_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	item, err := h.commands.UpdateItem.Handle(r.Context(), command.UpdateItemCommand{
		ID:           id,
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Cost:         command.OptionalFloat(req.Cost),
		ReorderPoint: command.OptionalFloat(req.ReorderPoint),
		SafetyStock:  command.OptionalFloat(req.SafetyStock),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item updated successfully",
		Data:    item,
	})
}

// UpdateStock godoc
// @Summary Set stock on hand
// @Tags Items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{stock=number} true "Stock data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/items/{id}/stock [patch]
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Invalid item ID")
		return
	}

	var req struct {
		Stock *float64 `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stock == nil {
		badRequest(w, "Invalid request body")
		return
	}

	item, err := h.commands.UpdateStock.Handle(r.Context(), command.UpdateStockCommand{
		ID:    id,
		Stock: *req.Stock,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock updated successfully",
		Data:    item,
	})
}

// ReceiveGoods godoc
// @Summary Book a goods receipt into stock
// @Tags Items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{quantity=number,grn_number=string} true "Receipt data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/items/{id}/receipts [post]
func (h *InventoryHandler) ReceiveGoods(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Invalid item ID")
		return
	}

	var req struct {
		Quantity  float64 `json:"quantity"`
		GRNNumber string  `json:"grn_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	item, err := h.commands.ReceiveGoods.Handle(r.Context(), command.ReceiveGoodsCommand{
		ItemID:    id,
		Quantity:  req.Quantity,
		GRNNumber: req.GRNNumber,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Goods received successfully",
		Data:    item,
	})
}

// DeleteItem godoc
// @Summary Delete inventory item
// @Tags Items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/items/{id} [delete]
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Invalid item ID")
		return
	}

	if err := h.commands.DeleteItem.Handle(r.Context(), command.DeleteItemCommand{ID: id}); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item deleted successfully",
	})
}

// nullableFloat tells an omitted field apart from an explicit null.
type nullableFloat struct {
	Set   bool
	Value *float64
}

func (n *nullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.Value)
}
