package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"powergest/repository"

	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Uploader stores a finished backup file.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
}

// Exporter renders the three collections as an xlsx workbook, one sheet per
// collection, with the same column names the panel uses.
type Exporter struct {
	store repository.Store
}

func NewExporter(store repository.Store) *Exporter {
	return &Exporter{store: store}
}

func (e *Exporter) Workbook(ctx context.Context) (*bytes.Buffer, error) {
	compras, err := e.store.Compras.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list compras: %w", err)
	}
	ventas, err := e.store.Ventas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	stock, err := e.store.Stock.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	comprasRows := [][]any{{"id", "producto", "proveedor", "marca", "precioUnitarioCompra", "cantidad", "fecha"}}
	for _, c := range compras {
		comprasRows = append(comprasRows, []any{c.ID.Hex(), c.Producto, c.Proveedor, c.Marca, c.PrecioUnitarioCompra, c.Cantidad, c.Fecha})
	}
	ventasRows := [][]any{{"id", "producto", "proveedor", "precioUnitarioVenta", "cantidad", "cliente", "metodoPago", "isPagado", "usuarioACargo", "fecha"}}
	for _, v := range ventas {
		ventasRows = append(ventasRows, []any{v.ID.Hex(), v.Producto, v.Proveedor, v.PrecioUnitarioVenta, v.Cantidad, v.Cliente, v.MetodoPago, v.IsPagado, v.UsuarioACargo, v.Fecha})
	}
	stockRows := [][]any{{"producto", "proveedor", "precioUnitarioVenta", "cantidadComprada", "cantidadVendida", "cantidadTotal"}}
	for _, s := range stock {
		stockRows = append(stockRows, []any{s.Producto, s.Proveedor, s.PrecioUnitarioVenta, s.CantidadComprada, s.CantidadVendida, s.CantidadTotal})
	}

	if err := f.SetSheetName("Sheet1", "Compras"); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Compras", comprasRows); err != nil {
		return nil, err
	}
	for _, sheet := range []struct {
		name string
		rows [][]any
	}{{"Ventas", ventasRows}, {"Stock", stockRows}} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sheet.name, sheet.rows); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// BackupName is the object name of the backup taken on day.
func BackupName(day time.Time) string {
	return "backups/powergest-" + day.Format(dateLayout) + ".xlsx"
}

// Backup renders the workbook and hands it to up.
func (e *Exporter) Backup(ctx context.Context, up Uploader, day time.Time) (string, error) {
	buf, err := e.Workbook(ctx)
	if err != nil {
		return "", err
	}
	name := BackupName(day)
	if err := up.Upload(ctx, name, buf.Bytes(), XLSXContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return name, nil
}
