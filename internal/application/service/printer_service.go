package service

import (
	"context"
	"fmt"
	"log"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/brechoria/brecho-api/pkg/printer"
	"github.com/google/uuid"
)

// PrinterService formats sale receipts and piece labels for the
// thermal printer. Printing is a post-sale convenience: it returns the
// formatted receipt even when the hardware write fails, so the
// frontend can always render it.
type PrinterService struct {
	printer   printer.Printer
	orderRepo repository.OrderRepository
	pieceRepo repository.PieceRepository
	width     int
	codePage  byte
	storeName string
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	orderRepo repository.OrderRepository,
	pieceRepo repository.PieceRepository,
	width int,
	encoding string,
	storeName string,
) *PrinterService {
	if width <= 0 {
		width = 32
	}
	return &PrinterService{
		printer:   p,
		orderRepo: orderRepo,
		pieceRepo: pieceRepo,
		width:     width,
		codePage:  printer.CodePageFor(encoding),
		storeName: storeName,
	}
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Connected bool `json:"connected"`
}

// GetStatus returns printer connection status
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{Connected: s.printer.IsConnected()}
}

// PrintOrderReceipt fetches an order and prints its receipt
func (s *PrinterService) PrintOrderReceipt(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: s.storeName},
		OrderCode: order.Code,
		Date:      order.OrderDate.Format("02/01/2006 15:04"),
		SubTotal:  float64(order.SubTotal) / 100,
		Discount:  float64(order.Discount) / 100,
		Total:     float64(order.Total) / 100,
	}
	if order.Customer != nil {
		receipt.Customer = order.Customer.Name
	}
	if order.Salesperson.FirstName != "" {
		receipt.Cashier = order.Salesperson.FullName()
	}

	for _, line := range order.Lines {
		if line.Cancelled {
			continue
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			LabelCode: line.Piece.LabelCode,
			Name:      line.Piece.Description,
			Price:     float64(line.ChargedPrice) / 100,
		})
	}
	for _, pay := range order.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Method: pay.Method.String(),
			Amount: float64(pay.Amount) / 100,
		})
	}

	data := s.formatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (order %s): %v", orderID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// PrintPieceLabel prints the numbered price tag for a piece
func (s *PrinterService) PrintPieceLabel(ctx context.Context, pieceID uuid.UUID) error {
	piece, err := s.pieceRepo.GetByID(ctx, pieceID)
	if err != nil {
		return err
	}
	if piece == nil {
		return apperror.NewNotFoundError("Piece")
	}

	doc := printer.NewDocument(s.width).SetCodePage(s.codePage)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		TextF("#%d", piece.LabelCode).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text(piece.Description).
		TextF("R$ %.2f", float64(piece.SalePrice)/100).
		FeedLines(2).
		PartialCut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		return fmt.Errorf("failed to print label: %w", err)
	}
	return nil
}

// formatReceipt converts a Receipt into ESC/POS bytes
func (s *PrinterService) formatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.width).SetCodePage(s.codePage)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Pedido:", r.OrderCode).
		KeyValue("Data:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Vendedor:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Cliente:", r.Customer)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.KeyValue(fmt.Sprintf("#%d %s", item.LabelCode, item.Name),
			fmt.Sprintf("%.2f", item.Price))
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue("Desconto:", fmt.Sprintf("%.2f", r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	for _, pay := range r.Payments {
		doc.KeyValue(pay.Method+":", fmt.Sprintf("%.2f", pay.Amount))
	}
	if r.Cashback > 0 {
		doc.KeyValue("Cashback:", fmt.Sprintf("%.2f", r.Cashback))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Obrigado pela preferencia!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
