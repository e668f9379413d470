package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	keyTitle               = "title"
	keySubtitle            = "subtitle"
	keySettings            = "settings"
	keyProductValue        = "input.productValue"
	keyDiscountPercent     = "input.discountPercent"
	keyMonthlyRatePercent  = "input.monthlyRatePercent"
	keyInstallmentCount    = "input.installmentCount"
	keyCalculate           = "input.calculate"
	keyAnalysis            = "analysis"
	keyCashPrice           = "cash.price"
	keyDiscountYield       = "cash.discountYield"
	keyFinalBalance        = "finalBalance"
	keyNetCost             = "netCost"
	keyInstallmentPrice    = "installment.price"
	keyInstallmentYield    = "installment.yield"
	keyInstallmentAmount   = "installment.amount"
	keyChart               = "chart"
	keyDetails             = "details"
	keyMonth               = "table.month"
	keyOpeningBalance      = "table.openingBalance"
	keyMonthlyYield        = "table.monthlyYield"
	keyInstallmentPaid     = "table.installmentPaid"
	keyClosingBalance      = "table.closingBalance"
	keyCumulativeYield     = "table.cumulativeYield"
	keyVerdictCash         = "verdict.cash"
	keyVerdictInstallment  = "verdict.installment"
	keyVerdictTie          = "verdict.tie"
	keyInvalidInstallments = "error.installments"
)

// translations holds the pt-BR and en-US text for every key. Texts are
// format strings, so a literal percent sign is written %%.
var translations = map[string][2]string{
	keyTitle:               {"Comprar à Vista ou Parcelado?", "Pay in Full or in Installments?"},
	keySubtitle:            {"Calcule a melhor opção de compra, considerando o desconto à vista e o rendimento do dinheiro em um investimento.", "Find the better way to pay, considering the upfront discount and the yield of money kept invested."},
	keySettings:            {"Configurações da Compra", "Purchase Settings"},
	keyProductValue:        {"Valor total do produto (R$)", "Total product price (R$)"},
	keyDiscountPercent:     {"Desconto para pagamento à vista (%%)", "Discount for paying in full (%%)"},
	keyMonthlyRatePercent:  {"Taxa de rendimento do investimento (%% ao mês)", "Investment yield (%% per month)"},
	keyInstallmentCount:    {"Número de parcelas", "Number of installments"},
	keyCalculate:           {"Calcular", "Calculate"},
	keyAnalysis:            {"Análise Financeira", "Financial Analysis"},
	keyCashPrice:           {"Custo à Vista (com desconto)", "Upfront Cost (discounted)"},
	keyDiscountYield:       {"Rendimento do Desconto", "Discount Yield"},
	keyFinalBalance:        {"Saldo no Final do Período", "Balance at End of Period"},
	keyNetCost:             {"Custo Líquido Final", "Final Net Cost"},
	keyInstallmentPrice:    {"Custo Parcelado (sem desconto)", "Installment Cost (no discount)"},
	keyInstallmentYield:    {"Rendimento do Parcelamento", "Installment Yield"},
	keyInstallmentAmount:   {"Valor da Parcela", "Installment Amount"},
	keyChart:               {"Gráfico de Acumulação de Rendimentos (Opção Parcelada)", "Accumulated Yield (Installment Option)"},
	keyDetails:             {"Detalhes do Cálculo", "Calculation Details"},
	keyMonth:               {"Mês", "Month"},
	keyOpeningBalance:      {"Saldo Inicial", "Opening Balance"},
	keyMonthlyYield:        {"Rendimento do Mês", "Monthly Yield"},
	keyInstallmentPaid:     {"Parcela Paga", "Installment Paid"},
	keyClosingBalance:      {"Saldo Final", "Closing Balance"},
	keyCumulativeYield:     {"Rendimento Acumulado", "Accumulated Yield"},
	keyVerdictCash:         {"Comprar à vista é a melhor opção! Você economiza %s", "Paying in full is the better option! You save %s"},
	keyVerdictInstallment:  {"Comprar parcelado é a melhor opção! Você economiza %s", "Paying in installments is the better option! You save %s"},
	keyVerdictTie:          {"As duas opções têm o mesmo custo líquido. A escolha é sua!", "Both options have the same net cost. The choice is yours!"},
	keyInvalidInstallments: {"O número de parcelas deve ser maior que zero.", "The number of installments must be greater than zero."},
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.BrazilianPortuguese))
	for key, text := range translations {
		// Keys and texts are static, so SetString cannot fail here.
		_ = builder.SetString(language.BrazilianPortuguese, key, text[0])
		_ = builder.SetString(language.AmericanEnglish, key, text[1])
	}
	return builder
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}
