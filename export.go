package restaurante

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "restaurante"

// ExportMetrics writes the story as Prometheus gauges in the textfile
// collector format to path.
func ExportMetrics(path string, story *Story) error {
	reg := prometheus.NewRegistry()

	bestSeller := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: metricsPrefix + "_best_seller_units",
		Help: "Units sold of the best-selling product in completed orders",
	}, []string{"product"})
	gourmet := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: metricsPrefix + "_gourmet_ticket_brl",
		Help: "Highest average ticket per order of a product, in BRL",
	}, []string{"product"})
	loyal := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: metricsPrefix + "_loyal_customer_orders",
		Help: "Completed orders of the most frequent customer",
	}, []string{"customer_id", "customer"})
	oneTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricsPrefix + "_one_time_customers",
		Help: "Customers with exactly one completed order",
	})
	withOrders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricsPrefix + "_customers_with_orders",
		Help: "Customers with at least one completed order",
	})
	oneTimePct := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricsPrefix + "_one_time_customers_percent",
		Help: "Share of one-time customers among customers with orders",
	})
	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricsPrefix + "_sale_records",
		Help: "Order items joined to a product and a completed order",
	})

	reg.MustRegister(bestSeller, gourmet, loyal, oneTime, withOrders, oneTimePct, records)

	bestSeller.WithLabelValues(story.BestSeller.Name).Set(float64(story.BestSeller.Quantity))
	gourmet.WithLabelValues(story.Gourmet.Name).Set(story.Gourmet.Ticket.InexactFloat64())
	loyal.WithLabelValues(strconv.Itoa(story.LoyalCustomer.CustomerId), story.LoyalCustomer.Name).
		Set(float64(story.LoyalCustomer.Orders))
	oneTime.Set(float64(story.OneTime.Count))
	withOrders.Set(float64(story.OneTime.Total))
	oneTimePct.Set(story.OneTime.Percent)
	records.Set(float64(story.SaleRecords))

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
