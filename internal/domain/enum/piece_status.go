package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// PieceStatus represents where a piece sits in its lifecycle
type PieceStatus int

const (
	PieceStatusNew                  PieceStatus = 0
	PieceStatusPendingAuthorization PieceStatus = 1
	PieceStatusAvailable            PieceStatus = 2
	PieceStatusReservedBundle       PieceStatus = 3
	PieceStatusReservedOnline       PieceStatus = 4
	PieceStatusSold                 PieceStatus = 5
	PieceStatusReturnedToSupplier   PieceStatus = 6
	PieceStatusDonated              PieceStatus = 7
	PieceStatusLost                 PieceStatus = 8
)

var pieceStatusNames = [...]string{
	"New",
	"PendingAuthorization",
	"Available",
	"ReservedBundle",
	"ReservedOnline",
	"Sold",
	"ReturnedToSupplier",
	"Donated",
	"Lost",
}

func (s PieceStatus) String() string {
	if s < 0 || int(s) >= len(pieceStatusNames) {
		return "Unknown"
	}
	return pieceStatusNames[s]
}

// Sellable reports whether a piece in this status may be sold or
// reserved. Only Available qualifies; selling anything else is a
// conflict and must be rejected by both the in-store and webhook paths.
func (s PieceStatus) Sellable() bool {
	return s == PieceStatusAvailable
}

// Reserved reports whether the piece is held for a bundle or an online
// checkout.
func (s PieceStatus) Reserved() bool {
	return s == PieceStatusReservedBundle || s == PieceStatusReservedOnline
}

// pieceTransitions lists the allowed moves of the status machine.
var pieceTransitions = map[PieceStatus][]PieceStatus{
	PieceStatusNew:                  {PieceStatusPendingAuthorization, PieceStatusAvailable},
	PieceStatusPendingAuthorization: {PieceStatusAvailable, PieceStatusReturnedToSupplier},
	PieceStatusAvailable: {
		PieceStatusReservedBundle,
		PieceStatusReservedOnline,
		PieceStatusSold,
		PieceStatusReturnedToSupplier,
		PieceStatusDonated,
		PieceStatusLost,
	},
	PieceStatusReservedBundle: {PieceStatusAvailable, PieceStatusSold},
	PieceStatusReservedOnline: {PieceStatusAvailable, PieceStatusSold},
	// A sold piece comes back through the return flow, or is written
	// off if it never physically returns.
	PieceStatusSold: {
		PieceStatusAvailable,
		PieceStatusReturnedToSupplier,
		PieceStatusDonated,
		PieceStatusLost,
	},
}

// CanTransition reports whether the status machine allows moving from s
// to next.
func (s PieceStatus) CanTransition(next PieceStatus) bool {
	for _, allowed := range pieceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParsePieceStatus maps a status name onto its canonical value. Legacy
// exports used both DISPONIVEL and A_VENDA for "available"; both parse
// to PieceStatusAvailable so historical data can be backfilled without
// keeping two meanings alive.
func ParsePieceStatus(s string) (PieceStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEW", "NOVA":
		return PieceStatusNew, true
	case "PENDINGAUTHORIZATION", "PENDING_AUTHORIZATION", "AGUARDANDO_AUTORIZACAO":
		return PieceStatusPendingAuthorization, true
	case "AVAILABLE", "DISPONIVEL", "A_VENDA":
		return PieceStatusAvailable, true
	case "RESERVEDBUNDLE", "RESERVED_BUNDLE":
		return PieceStatusReservedBundle, true
	case "RESERVEDONLINE", "RESERVED_ONLINE":
		return PieceStatusReservedOnline, true
	case "SOLD", "VENDIDA":
		return PieceStatusSold, true
	case "RETURNEDTOSUPPLIER", "RETURNED_TO_SUPPLIER", "DEVOLVIDA":
		return PieceStatusReturnedToSupplier, true
	case "DONATED", "DOADA":
		return PieceStatusDonated, true
	case "LOST", "PERDIDA":
		return PieceStatusLost, true
	}
	return PieceStatusNew, false
}

func (s PieceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PieceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PieceStatus(i)
		return nil
	}
	if parsed, ok := ParsePieceStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s PieceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PieceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PieceStatusNew
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PieceStatus(v)
	case int:
		*s = PieceStatus(v)
	}
	return nil
}
