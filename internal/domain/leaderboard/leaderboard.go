// Пакет leaderboard — подсчёт баллов и построение рейтингов участников.
// Баллы участника — сумма стоимостей всех его награждений.
// Участники делятся на два рейтинга: кадеты и все остальные (менторы).
package leaderboard

import (
	"sort"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// Entry — строка рейтинга: участник и его суммарные баллы.
type Entry struct {
	// Points — суммарные баллы участника
	Points int
	// User — участник
	User *model.User
}

// Board — два рейтинга, отсортированные по убыванию баллов.
type Board struct {
	// Cadets — рейтинг кадетов
	Cadets []Entry
	// Mentors — рейтинг менторов (и участников с иным типом)
	Mentors []Entry
}

// Build строит рейтинги из полного набора участников и карты
// суммарных баллов (ключ — UUID участника). Участник без награждений
// получает 0 баллов. Разбиение полное: каждый участник попадает ровно
// в один из двух списков.
//
// Сортировка — по убыванию баллов; при равенстве — по возрастанию
// github_login, чтобы порядок был детерминированным.
func Build(users []*model.User, pointsByUser map[string]int) *Board {
	board := &Board{}

	for _, u := range users {
		entry := Entry{
			Points: pointsByUser[u.ID],
			User:   u,
		}
		if u.Type == model.TypeCadet {
			board.Cadets = append(board.Cadets, entry)
		} else {
			board.Mentors = append(board.Mentors, entry)
		}
	}

	sortEntries(board.Cadets)
	sortEntries(board.Mentors)
	return board
}

// sortEntries сортирует строки рейтинга: баллы по убыванию,
// затем github_login по возрастанию.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].User.GitHubLogin < entries[j].User.GitHubLogin
	})
}
