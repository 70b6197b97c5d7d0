package model

import "time"

// Medal — награда программы с фиксированной стоимостью в баллах.
// Хранится в таблице medals. Маршрутов обновления и удаления нет.
type Medal struct {
	// ID — UUID записи
	ID string
	// Name — название медали
	Name string
	// Image — URL изображения
	Image string
	// ImageDisabled — URL изображения в неактивном состоянии
	ImageDisabled string
	// Points — стоимость в баллах (неотрицательная)
	Points int
	// SortKey — ключ сортировки в административном списке
	SortKey string
	// Description — описание
	Description string
	// Secret — скрытая медаль (модель данных поддерживает флаг,
	// фильтрация публичных списков не реализована)
	Secret bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// Decoration — факт награждения: связь участника и медали.
// Хранится в таблице decorations. Никогда не изменяется и не удаляется;
// участник может получить одну медаль несколько раз.
type Decoration struct {
	// ID — UUID записи
	ID string
	// UserID — UUID награждённого участника
	UserID string
	// MedalID — UUID медали
	MedalID string
	// CreatedAt — время награждения
	CreatedAt time.Time
}
