package contract

// Service is the backend representation of a repair request. Timestamps
// travel as RFC 3339 strings.
type Service struct {
	ID           int64  `json:"id"`
	ClientID     int64  `json:"clienteId"`
	TechnicianID *int64 `json:"tecnicoId,omitempty"`
	Type         string `json:"tipo"`
	Description  string `json:"descripcion"`
	Status       string `json:"estado"`
	RequestedAt  string `json:"fechaSolicitud"`
	CompletedAt  string `json:"fechaCompletado,omitempty"`
	Address      string `json:"direccion"`
	Warranty     bool   `json:"garantia"`
}

// CreateServiceRequest is the body of POST servicios.
type CreateServiceRequest struct {
	Type        string `json:"tipo"             validate:"required"`
	Description string `json:"descripcion"      validate:"required,min=10"`
	Address     string `json:"direccion"        validate:"required"`
	Status      string `json:"estado,omitempty" validate:"omitempty,oneof=pendiente pending"`
}

// UpdateServiceRequest is the body of PATCH servicios/{id}.
type UpdateServiceRequest struct {
	Status       string `json:"estado,omitempty"`
	TechnicianID *int64 `json:"tecnicoId,omitempty"`
}
