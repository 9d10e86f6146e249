package utils

import (
	"fmt"

	"github.com/phuocthuan2203/libhub-microservices/internal/models"
)

func ExportData(logs []models.AuditLog) error {
	for _, entry := range logs {
		// stdout stands in for the ops log pipeline until one is provisioned
		fmt.Println(entry.Timestamp, entry.Entity, entry.Action, entry.Data)
	}
	return nil
}
