// Package entityid генерирует строковые идентификаторы доменных сущностей.
package entityid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// New генерирует идентификатор сущности вида "<prefix>_<32 hex>".
// Формат совпадает с идентификаторами, которые клиент создаёт в локальном
// хранилище, поэтому созданные на сервере и импортированные записи неотличимы.
func New(prefix string) string {
	u := uuid.New()
	return prefix + "_" + hex.EncodeToString(u[:])
}
