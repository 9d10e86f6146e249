package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phuocthuan2203/libhub-microservices/internal/models"
)

type MetricsHandler struct {
	LoanCol *mongo.Collection
}

// GET /admin/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	todayStart := time.Now().Truncate(24 * time.Hour)

	// 1. Loans currently out
	activeLoans, _ := h.LoanCol.CountDocuments(ctx, bson.M{
		"status": models.LoanCheckedOut,
	})

	// 2. Borrow attempts today, failed ones included
	loansToday, _ := h.LoanCol.CountDocuments(ctx, bson.M{
		"checkout_date": bson.M{"$gte": todayStart},
	})

	// 3. Compensated attempts kept for audit
	failedLoans, _ := h.LoanCol.CountDocuments(ctx, bson.M{
		"status": models.LoanFailed,
	})

	// 4. Overdue count
	overdueCount, _ := h.LoanCol.CountDocuments(ctx, bson.M{
		"due_date": bson.M{"$lt": time.Now()},
		"status":   models.LoanCheckedOut,
	})

	json.NewEncoder(w).Encode(map[string]interface{}{
		"active_loans":  activeLoans,
		"loans_today":   loansToday,
		"failed_loans":  failedLoans,
		"overdue_count": overdueCount,
	})
}
