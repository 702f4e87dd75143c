// internal/domain/models/department.go
package models

// Department is reference data used to label per-department breakdowns.
// The id is the organizational code dossiers store in department_id.
type Department struct {
	ID          string `bson:"_id" json:"id"`
	DisplayName string `bson:"display_name" json:"display_name"`
}
