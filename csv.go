package restaurante

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Input file names inside the data directory.
const (
	OrdersFile     = "orders.csv"
	OrderItemsFile = "order_items.csv"
	ProductsFile   = "products.csv"
	CustomersFile  = "customers.csv"
)

// InputFiles lists every CSV file a CSVSource reads.
var InputFiles = []string{OrdersFile, OrderItemsFile, ProductsFile, CustomersFile}

func init() {
	// A header missing one of the tagged columns is a malformed table.
	gocsv.FailIfUnmatchedStructTags = true
}

// CSVSource loads the dataset from the four CSV files in Dir.
type CSVSource struct {
	Dir string
}

func (s CSVSource) Name() string {
	return "csv:" + s.Dir
}

func (s CSVSource) Load(_ context.Context) (*Dataset, error) {
	var ds Dataset
	if err := readCSV(filepath.Join(s.Dir, OrdersFile), &ds.Orders); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(s.Dir, OrderItemsFile), &ds.OrderItems); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(s.Dir, ProductsFile), &ds.Products); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(s.Dir, CustomersFile), &ds.Customers); err != nil {
		return nil, err
	}
	return &ds, nil
}

func readCSV[T any](path string, out *[]T) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := gocsv.Unmarshal(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
