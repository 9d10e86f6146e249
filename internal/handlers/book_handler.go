package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phuocthuan2203/libhub-microservices/internal/constants"
	"github.com/phuocthuan2203/libhub-microservices/internal/ledger"
	"github.com/phuocthuan2203/libhub-microservices/internal/models"
	"github.com/phuocthuan2203/libhub-microservices/internal/utils"
)

type BookHandler struct {
	BookCollection *mongo.Collection
	Ledger         *ledger.Ledger
	AuditLogger    utils.Logger
}

func NewBookHandler(bookColl *mongo.Collection, lg *ledger.Ledger, logger utils.Logger) *BookHandler {
	return &BookHandler{
		BookCollection: bookColl,
		Ledger:         lg,
		AuditLogger:    logger,
	}
}

type CreateBookRequest struct {
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	TotalCopies int    `json:"total_copies"`
}

type UpdateStockRequest struct {
	ChangeAmount int `json:"change_amount"`
}

// POST /books
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	book, err := models.NewBook(req.ISBN, req.Title, req.Author, req.TotalCopies)
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	book.Genre = req.Genre
	book.Description = req.Description

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.BookCollection.InsertOne(ctx, book); err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Create, book)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}

// GET /books
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := h.BookCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var books []models.Book
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONError(w, "Error decoding books", http.StatusInternalServerError)
		return
	}

	if len(books) == 0 {
		utils.JSONError(w, "No books found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(books)
}

// GET /books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var book models.Book
	if err := h.BookCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&book); err != nil {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(book)
}

// GET /books/search?q=
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if query != "" {
		filter["$text"] = bson.M{"$search": query}
	}

	cursor, err := h.BookCollection.Find(ctx, filter)
	if err != nil {
		utils.JSONError(w, "Failed to search books: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var results []models.Book
	if err = cursor.All(ctx, &results); err != nil {
		utils.JSONError(w, "Failed to decode books", http.StatusInternalServerError)
		return
	}

	if len(results) == 0 {
		utils.JSONError(w, "No record found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(results)
}

// PUT /books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var updateData map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		utils.JSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if len(updateData) == 0 {
		utils.JSONError(w, "No update fields provided", http.StatusBadRequest)
		return
	}

	// counters belong to the ledger, not to detail updates
	for _, field := range []string{"total_copies", "available_copies"} {
		if _, ok := updateData[field]; ok {
			utils.JSONError(w, "Copy counters cannot be updated here, use the stock endpoint", http.StatusBadRequest)
			return
		}
	}

	updateData["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := h.BookCollection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updateData},
	)
	if err != nil {
		utils.JSONError(w, "Update failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Update, updateData)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Book updated successfully",
		"modifiedCount": result.ModifiedCount,
	})
}

// DELETE /books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := h.BookCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.JSONError(w, "Delete failed", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Delete, id)

	w.WriteHeader(http.StatusNoContent)
}

// GET /books/{id}/availability
func (h *BookHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	available, err := h.Ledger.IsAvailable(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrBookNotFound) {
			utils.JSONError(w, "Book not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, "Failed to check availability", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"is_available": available})
}

// PUT /books/{id}/stock
func (h *BookHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if req.ChangeAmount == 0 {
		utils.JSONError(w, "change_amount must be non-zero", http.StatusBadRequest)
		return
	}

	// applied one copy at a time, each step guarded by the ledger
	step := h.Ledger.Increment
	if req.ChangeAmount < 0 {
		step = h.Ledger.Decrement
	}

	magnitude := req.ChangeAmount
	if magnitude < 0 {
		magnitude = -magnitude
	}

	for i := 0; i < magnitude; i++ {
		if err := step(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, ledger.ErrBookNotFound):
				utils.JSONError(w, "Book not found", http.StatusNotFound)
			case errors.Is(err, ledger.ErrOutOfStock), errors.Is(err, ledger.ErrOverCapacity):
				utils.JSONError(w, err.Error(), http.StatusConflict)
			default:
				utils.JSONError(w, "Stock update failed", http.StatusInternalServerError)
			}
			return
		}
	}

	h.AuditLogger.Log(context.Background(), models.BookEntity, constants.StockChange, map[string]interface{}{
		"book_id":       id,
		"change_amount": req.ChangeAmount,
	})

	json.NewEncoder(w).Encode(map[string]string{"message": "Stock updated"})
}
