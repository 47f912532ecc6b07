package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"powergest/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memUploader struct {
	name        string
	data        []byte
	contentType string
}

func (u *memUploader) Upload(_ context.Context, name string, data []byte, contentType string) error {
	u.name, u.data, u.contentType = name, data, contentType
	return nil
}

func TestExportWorkbook(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	inv := NewInventory(store)
	_, err := inv.CreateCompra(ctx, compraIn(whey, 5, 1000))
	require.NoError(t, err)
	_, err = inv.CreateVenta(ctx, ventaIn(whey, 2, 1500))
	require.NoError(t, err)

	up := &memUploader{}
	name, err := NewExporter(store).Backup(ctx, up, time.Date(2024, 5, 20, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "backups/powergest-2024-05-20.xlsx", name)
	assert.Equal(t, name, up.name)
	assert.Equal(t, XLSXContentType, up.contentType)

	f, err := excelize.OpenReader(bytes.NewReader(up.data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Compras", "Ventas", "Stock"}, f.GetSheetList())

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Whey 1kg", "Distri Norte", "1500", "5", "2", "3"}, rows[1])

	rows, err = f.GetRows("Ventas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Juan", rows[1][5])
}
