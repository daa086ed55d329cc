package configs

import (
	"log"

	razorpay "github.com/razorpay/razorpay-go"
)

var razorpayClient *razorpay.Client

func InitRazorpayClient() {
	razorpayClient = razorpay.NewClient(LoadENV.RAZORPAY_KEY_ID, LoadENV.RAZORPAY_KEY_SECRET)
	log.Println("✅ Razorpay client initialized.")
}

func GetRazorpayClient() *razorpay.Client {
	if razorpayClient == nil {
		InitRazorpayClient()
	}
	return razorpayClient
}
