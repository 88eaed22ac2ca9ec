// AngelaMos | 2026
// entity.go

package category

import "time"

type Category struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	NameUz    string    `db:"name_uz"`
	NameRu    string    `db:"name_ru"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Defaults is the built-in catalog structure loaded by the seed command.
func Defaults() []Category {
	return []Category{
		{Name: "Home", NameUz: "Bosh sahifa", NameRu: "Главная", Slug: "home"},
		{Name: "Fashion illustration", NameUz: "Fashion illustration", NameRu: "Fashion иллюстрация", Slug: "fashion-illustration"},
		{Name: "Amaliy san'at", NameUz: "Amaliy san'at", NameRu: "Прикладное искусство", Slug: "amaliy-sanat"},
		{Name: "Grafika", NameUz: "Grafika", NameRu: "Графика", Slug: "grafika"},
		{Name: "Haykaltaroshlik", NameUz: "Haykaltaroshlik", NameRu: "Скульптура", Slug: "haykaltaroshlik"},
		{Name: "Temirchilik", NameUz: "Temirchilik", NameRu: "Кузнечное дело", Slug: "temirchilik"},
		{Name: "Kulolchilik", NameUz: "Kulolchilik", NameRu: "Гончарное дело", Slug: "kulolchilik"},
		{Name: "Zardo'zlik va kashtachilik", NameUz: "Zardo'zlik va kashtachilik", NameRu: "Золотое шитье и вышивка", Slug: "zardozlik"},
		{Name: "Yog'och o'ymakorligi", NameUz: "Yog'och o'ymakorligi", NameRu: "Резьба по дереву", Slug: "yogoch-oymakorligi"},
	}
}
