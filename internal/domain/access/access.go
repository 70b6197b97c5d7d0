// Пакет access — проверка привилегий участника.
// Привилегия — это slug из каталога permissions; проверка выполняется
// явной проверкой принадлежности множеству выданных slug'ов.
package access

// Слаги привилегий, на которые закрыты маршруты приложения.
// Каталог permissions может содержать и другие слаги — эти
// проверяются кодом.
const (
	// MedalsDecorate — награждение участников медалями.
	MedalsDecorate = "medals_decorate"
	// MedalsView — просмотр каталога медалей.
	MedalsView = "medals_view"
	// MedalsCreate — создание медалей.
	MedalsCreate = "medals_create"
	// UsersView — просмотр списка участников.
	UsersView = "users_view"
	// UsersCreate — создание участников.
	UsersCreate = "users_create"
	// PermissionsCreate — управление каталогом привилегий.
	PermissionsCreate = "permissions_create"
)

// HasAll проверяет, содержит ли набор выданных slug'ов granted
// все требуемые slug'и required. Пустой required всегда проходит.
func HasAll(granted []string, required ...string) bool {
	grantedSet := toSet(granted)
	for _, slug := range required {
		if !grantedSet[slug] {
			return false
		}
	}
	return true
}

// toSet конвертирует срез строк в map для быстрого поиска.
func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, item := range items {
		s[item] = true
	}
	return s
}
