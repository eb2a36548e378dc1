package domain

import "math"

// CommissionPolicy политика расчета комиссии, параметризованная каналом бронирования.
// Прямой канал: фиксированный процент платформы от суммы.
// Реселлерский канал: сумма делится между гидом, туроператором и платформой,
// комиссией бронирования считается доля туроператора
type CommissionPolicy struct {
	DirectRate float64

	ResellerGuideShare    float64
	ResellerOperatorShare float64
	ResellerPlatformShare float64
}

// DefaultCommissionPolicy возвращает политику по умолчанию:
// 10% для прямого канала, 65/20/15 (гид/оператор/платформа) для реселлерского
func DefaultCommissionPolicy() CommissionPolicy {
	return CommissionPolicy{
		DirectRate:            0.10,
		ResellerGuideShare:    0.65,
		ResellerOperatorShare: 0.20,
		ResellerPlatformShare: 0.15,
	}
}

// CommissionFor вычисляет комиссию бронирования для указанного канала
// Результат округляется до копеек
func (p CommissionPolicy) CommissionFor(channel BookingChannel, totalAmount float64) float64 {
	switch channel {
	case ChannelReseller:
		return roundMoney(totalAmount * p.ResellerOperatorShare)
	default:
		return roundMoney(totalAmount * p.DirectRate)
	}
}

// ResellerSplit возвращает доли гида, оператора и платформы для реселлерского бронирования
func (p CommissionPolicy) ResellerSplit(totalAmount float64) (guide, operator, platform float64) {
	guide = roundMoney(totalAmount * p.ResellerGuideShare)
	operator = roundMoney(totalAmount * p.ResellerOperatorShare)
	// Платформе достается остаток, чтобы сумма долей сходилась с итогом
	platform = roundMoney(totalAmount - guide - operator)
	return guide, operator, platform
}

// roundMoney округляет сумму до двух знаков
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
