package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

var watchCmd = &cobra.Command{
	Use:   "watch <orderId>",
	Short: "Follow an order's payment status from the terminal",
	Args:  cobra.ExactArgs(1),
	Run:   runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) {
	_, paymentService, _, cleanup := mustCreatePaymentService()
	defer cleanup()

	orderID := args[0]
	logger := logrus.WithField("order_id", orderID)

	unsubscribe, err := paymentService.WatchPaymentStatus(orderID, func(status *entity.PaymentStatus) {
		logger.WithFields(logrus.Fields{
			"status":             status.Status,
			"message":            status.Message,
			"verification_count": status.VerificationCount,
		}).Info("payment_status_update")
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to subscribe to payment status")
	}
	defer unsubscribe()

	logger.Info("Watching payment status, Ctrl-C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Watch stopped")
}
