package entity

type PaymentMethod string

const (
	PaymentMethodKhanbank  PaymentMethod = "khanbank"
	PaymentMethodGolomt    PaymentMethod = "golomt"
	PaymentMethodTDB       PaymentMethod = "tdb"
	PaymentMethodQPay      PaymentMethod = "qpay"
	PaymentMethodSocialPay PaymentMethod = "socialpay"
	PaymentMethodCard      PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodKhanbank, PaymentMethodGolomt, PaymentMethodTDB,
		PaymentMethodQPay, PaymentMethodSocialPay, PaymentMethodCard:
		return true
	default:
		return false
	}
}

const (
	MethodKindBankTransfer = "bank_transfer"
	MethodKindMobileWallet = "mobile_wallet"
	MethodKindCard         = "card"
)

// BankTransferInfo holds the receiving account shown to the customer
// for manual bank transfers.
type BankTransferInfo struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// MobileWalletInfo holds the merchant wallet the customer pays into.
type MobileWalletInfo struct {
	WalletName   string `json:"walletName"`
	MerchantCode string `json:"merchantCode"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// CardInfo carries the hosted-form hint for card payments.
type CardInfo struct {
	Processor string `json:"processor"`
}

// PaymentInstructions is the discriminated per-method record: Kind
// names which of the variant pointers is set.
type PaymentInstructions struct {
	Method PaymentMethod     `json:"method"`
	Kind   string            `json:"kind"`
	Bank   *BankTransferInfo `json:"bank,omitempty"`
	Wallet *MobileWalletInfo `json:"wallet,omitempty"`
	Card   *CardInfo         `json:"card,omitempty"`
}
