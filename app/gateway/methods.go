package gateway

import "github.com/edusoft-mn/ms-go-course-payments/app/entity"

// MethodRegistry maps the closed payment-method enum to its typed
// instruction record. Each variant's required fields are statically
// known; there is no catch-all method config.
type MethodRegistry struct {
	methods map[entity.PaymentMethod]entity.PaymentInstructions
}

func NewMethodRegistry() *MethodRegistry {
	items := map[entity.PaymentMethod]entity.PaymentInstructions{
		entity.PaymentMethodKhanbank: {
			Method: entity.PaymentMethodKhanbank,
			Kind:   entity.MethodKindBankTransfer,
			Bank: &entity.BankTransferInfo{
				BankName:      "Хаан банк",
				AccountNumber: "5041122233",
				AccountHolder: "Эдусофт ХХК",
			},
		},
		entity.PaymentMethodGolomt: {
			Method: entity.PaymentMethodGolomt,
			Kind:   entity.MethodKindBankTransfer,
			Bank: &entity.BankTransferInfo{
				BankName:      "Голомт банк",
				AccountNumber: "3015544466",
				AccountHolder: "Эдусофт ХХК",
			},
		},
		entity.PaymentMethodTDB: {
			Method: entity.PaymentMethodTDB,
			Kind:   entity.MethodKindBankTransfer,
			Bank: &entity.BankTransferInfo{
				BankName:      "Худалдаа хөгжлийн банк",
				AccountNumber: "4990077889",
				AccountHolder: "Эдусофт ХХК",
			},
		},
		entity.PaymentMethodQPay: {
			Method: entity.PaymentMethodQPay,
			Kind:   entity.MethodKindMobileWallet,
			Wallet: &entity.MobileWalletInfo{
				WalletName:   "QPay",
				MerchantCode: "EDUSOFT_MN",
			},
		},
		entity.PaymentMethodSocialPay: {
			Method: entity.PaymentMethodSocialPay,
			Kind:   entity.MethodKindMobileWallet,
			Wallet: &entity.MobileWalletInfo{
				WalletName:   "SocialPay",
				MerchantCode: "EDUSOFT",
				PhoneNumber:  "99112233",
			},
		},
		entity.PaymentMethodCard: {
			Method: entity.PaymentMethodCard,
			Kind:   entity.MethodKindCard,
			Card:   &entity.CardInfo{Processor: "simulated"},
		},
	}
	return &MethodRegistry{methods: items}
}

func (r *MethodRegistry) Get(method entity.PaymentMethod) (entity.PaymentInstructions, error) {
	item, ok := r.methods[method]
	if !ok {
		return entity.PaymentInstructions{}, ErrMethodNotSupported
	}
	return item, nil
}

// List returns every method's instructions in enum order.
func (r *MethodRegistry) List() []entity.PaymentInstructions {
	order := []entity.PaymentMethod{
		entity.PaymentMethodKhanbank,
		entity.PaymentMethodGolomt,
		entity.PaymentMethodTDB,
		entity.PaymentMethodQPay,
		entity.PaymentMethodSocialPay,
		entity.PaymentMethodCard,
	}
	items := make([]entity.PaymentInstructions, 0, len(order))
	for _, method := range order {
		items = append(items, r.methods[method])
	}
	return items
}
