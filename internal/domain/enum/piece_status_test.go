package enum

import "testing"

func TestParsePieceStatusLegacyAliases(t *testing.T) {
	cases := []struct {
		in   string
		want PieceStatus
	}{
		{"Available", PieceStatusAvailable},
		{"DISPONIVEL", PieceStatusAvailable},
		{"A_VENDA", PieceStatusAvailable},
		{"nova", PieceStatusNew},
		{"VENDIDA", PieceStatusSold},
		{"AGUARDANDO_AUTORIZACAO", PieceStatusPendingAuthorization},
		{"reserved_online", PieceStatusReservedOnline},
		{"DEVOLVIDA", PieceStatusReturnedToSupplier},
		{"doada", PieceStatusDonated},
		{"PERDIDA", PieceStatusLost},
		{" sold ", PieceStatusSold},
	}
	for _, c := range cases {
		got, ok := ParsePieceStatus(c.in)
		if !ok {
			t.Fatalf("parse %q: not recognized", c.in)
		}
		if got != c.want {
			t.Fatalf("parse %q: expected %s, got %s", c.in, c.want, got)
		}
	}

	if _, ok := ParsePieceStatus("rasgada"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}

func TestStatusMachineBlocksIllegalMoves(t *testing.T) {
	if !PieceStatusAvailable.CanTransition(PieceStatusSold) {
		t.Fatalf("available must be sellable")
	}
	if PieceStatusDonated.CanTransition(PieceStatusAvailable) {
		t.Fatalf("donated is terminal")
	}
	if PieceStatusNew.CanTransition(PieceStatusSold) {
		t.Fatalf("new pieces cannot sell directly")
	}
	if !PieceStatusSold.CanTransition(PieceStatusAvailable) {
		t.Fatalf("returns must bring sold pieces back")
	}
}
