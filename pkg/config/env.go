package config

const (
	EnvPrefix  = "STOREFRONT"
	EnvCatalog = "STOREFRONT_CATALOG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	envAppEnv         = "STOREFRONT_APP_ENV"
	envStockURL       = "STOREFRONT_STOCK_URL"
	envPaymentURL     = "STOREFRONT_PAYMENT_TRANSACTION_URL"
	envPaymentTimeout = "STOREFRONT_PAYMENT_TIMEOUT"
)
