package catalog

import "github.com/m04kA/SMC-BookingWizard/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
