package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"blogAPI/internal/config"
	"blogAPI/internal/database"
	"blogAPI/internal/models"
	"blogAPI/internal/repository"
)

var authors = []struct {
	name  string
	email string
}{
	{"Анна Смирнова", "anna@example.com"},
	{"Павел Котов", "pavel@example.com"},
	{"Мария Лебедева", "maria@example.com"},
}

var categories = []struct {
	name        string
	description string
}{
	{"Разработка", "Языки, фреймворки и инженерные практики"},
	{"DevOps", "Инфраструктура, CI/CD и эксплуатация"},
	{"Базы данных", "Проектирование схем, запросы и репликация"},
	{"Карьера", "Рост, собеседования и работа в команде"},
}

var blogs = []struct {
	title     string
	body      string
	category  int
	tags      []string
	published bool
	featured  bool
}{
	{
		title: "Зачем сервису миграции в виде простого SQL-файла",
		body: "Миграции не обязаны быть фреймворком. Один SQL-файл с CREATE TABLE IF NOT EXISTS " +
			"покрывает большинство маленьких сервисов: он читается глазами, выполняется при старте " +
			"и не требует отдельного инструмента в CI.\n\nГлавное правило - файл только дополняется. " +
			"Любое изменение схемы, которое нельзя выразить идемпотентно, означает, что сервис дорос " +
			"до настоящего инструмента миграций.",
		category:  0,
		tags:      []string{"go", "sql"},
		published: true,
		featured:  true,
	},
	{
		title: "Пагинация через LIMIT/OFFSET и где она ломается",
		body: "LIMIT и OFFSET прекрасно работают, пока таблица помещается в кеш и никто не листает " +
			"дальше сотой страницы. После этого каждый запрос перечитывает и отбрасывает тысячи строк.\n\n" +
			"Для ленты блогов этого достаточно: глубокие страницы никто не открывает, а числа страниц " +
			"нужны дизайну. Ключевая пагинация подождет до реальной нагрузки.",
		category:  2,
		tags:      []string{"sql", "postgresql"},
		published: true,
		featured:  false,
	},
	{
		title: "Bearer-токены без сессий: что хранить на сервере",
		body: "Access token живет полчаса и нигде не хранится - подпись проверяется на каждом запросе. " +
			"Refresh token наоборот лежит в базе рядом с пользователем: его можно отозвать, заменить " +
			"или почистить при блокировке аккаунта.\n\nТакая схема переживает рестарты без общего " +
			"хранилища сессий и остается в пределах одной таблицы users.",
		category:  0,
		tags:      []string{"go", "security"},
		published: true,
		featured:  false,
	},
	{
		title: "Очередь на собеседование: заметки тимлида",
		body: "За полгода я провел сорок собеседований и почти перестал спрашивать про алгоритмы. " +
			"Куда показательнее попросить кандидата прочитать чужой код и объяснить, что сломается " +
			"при двойном нажатии кнопки.\n\nЭтот черновик я дополню после следующего цикла найма.",
		category:  3,
		tags:      []string{"карьера"},
		published: false,
		featured:  false,
	},
	{
		title: "MinIO как локальный S3 для разработки",
		body: "Поднять MinIO в docker-compose быстрее, чем завести тестовый бакет в облаке. API " +
			"совместим с S3, политики доступа настраиваются одной командой, а содержимое бакета " +
			"видно в веб-консоли.\n\nВ проде тот же код работает против любого S3-совместимого " +
			"хранилища - меняются только endpoint и ключи в конфигурации.",
		category:  1,
		tags:      []string{"devops", "s3"},
		published: true,
		featured:  true,
	},
	{
		title: "Премодерация комментариев одним флагом",
		body: "Флаг COMMENT_MODERATION переключает сервис между двумя режимами: либо комментарий виден " +
			"сразу, либо ждет одобрения. Хранится это одним булевым полем is_approved, а вся логика - " +
			"пара условий в выборке.\n\nОрфанов от скрытых родителей поднимаем на верхний уровень, " +
			"чтобы ветка обсуждения не пропадала целиком.",
		category:  0,
		tags:      []string{"go", "api"},
		published: true,
		featured:  false,
	},
}

var commentTexts = []string{
	"Отличный разбор, забрал себе в закладки.",
	"А как это поведет себя под нагрузкой?",
	"Спорно. У нас ровно обратный опыт.",
	"Попробовал - работает, спасибо!",
	"Не хватает примера конфигурации.",
	"Согласен с выводами, особенно про простоту.",
	"Можно подробнее про откат миграций?",
	"Автору респект, пишите еще.",
}

func main() {
	adminEmail := flag.String("admin-email", "admin@example.com", "email администратора")
	adminPassword := flag.String("admin-password", "Admin123", "пароль администратора")
	flag.Parse()

	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer db.CloseDB()

	repo := repository.NewRepository(db.DB)

	log.Println("Заполняем базу демо-данными...")

	// Администратор
	admin := &models.User{
		Name:     "Администратор",
		Email:    *adminEmail,
		IsActive: true,
		IsAdmin:  true,
	}
	if err := repo.User.CreateUser(ctx, admin, *adminPassword); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			log.Fatalf("email %s уже занят - похоже, база уже заполнена", *adminEmail)
		}
		log.Fatalf("не удалось создать администратора: %v", err)
	}
	log.Printf("✓ Администратор: %s", admin.Email)

	// Авторы
	var users []*models.User
	for _, a := range authors {
		user := &models.User{Name: a.name, Email: a.email, IsActive: true}
		if err := repo.User.CreateUser(ctx, user, "Demo1234"); err != nil {
			log.Fatalf("не удалось создать пользователя %s: %v", a.email, err)
		}
		log.Printf("✓ Пользователь: %s <%s>", user.Name, user.Email)
		users = append(users, user)
	}

	// Категории
	var categoryIDs []string
	for _, c := range categories {
		desc := c.description
		category := &models.Category{Name: c.name, Description: &desc, IsActive: true}
		if err := repo.Category.Create(ctx, category); err != nil {
			log.Fatalf("не удалось создать категорию %s: %v", c.name, err)
		}
		log.Printf("✓ Категория: %s", category.Name)
		categoryIDs = append(categoryIDs, category.CategoryID)
	}

	// Блоги с тегами
	var publishedIDs []string
	for _, b := range blogs {
		tags, err := repo.Tag.GetOrCreateByNames(ctx, b.tags)
		if err != nil {
			log.Fatalf("не удалось подготовить теги %v: %v", b.tags, err)
		}
		tagIDs := make([]string, 0, len(tags))
		for _, t := range tags {
			tagIDs = append(tagIDs, t.TagID)
		}

		author := users[rand.Intn(len(users))]
		blog := &models.Blog{
			Title:       b.title,
			Body:        b.body,
			Excerpt:     excerpt(b.body),
			IsFeatured:  b.featured,
			IsPublished: b.published,
			AuthorID:    author.UserID,
			CategoryID:  &categoryIDs[b.category],
		}
		if b.published {
			now := time.Now()
			blog.PublishedAt = &now
		}

		if err := repo.Blog.Create(ctx, blog, tagIDs); err != nil {
			log.Fatalf("не удалось создать блог %q: %v", b.title, err)
		}
		status := "черновик"
		if b.published {
			status = "опубликован"
			publishedIDs = append(publishedIDs, blog.BlogID)
		}
		log.Printf("✓ Блог: %s (%s, автор %s)", blog.Title, status, author.Name)

		// Small delay to spread out created_at times
		time.Sleep(50 * time.Millisecond)
	}

	// Комментарии с редкими ответами
	commentCount := 0
	for _, blogID := range publishedIDs {
		n := rand.Intn(3) + 1
		for i := 0; i < n; i++ {
			user := users[rand.Intn(len(users))]
			comment := &models.Comment{
				Content:    commentTexts[rand.Intn(len(commentTexts))],
				IsApproved: true,
				BlogID:     blogID,
				UserID:     user.UserID,
			}
			if err := repo.Comment.Create(ctx, comment); err != nil {
				log.Printf("✗ не удалось создать комментарий: %v", err)
				continue
			}
			commentCount++

			if rand.Float32() < 0.3 {
				replier := users[rand.Intn(len(users))]
				reply := &models.Comment{
					Content:    commentTexts[rand.Intn(len(commentTexts))],
					IsApproved: true,
					BlogID:     blogID,
					UserID:     replier.UserID,
					ParentID:   &comment.CommentID,
				}
				if err := repo.Comment.Create(ctx, reply); err != nil {
					log.Printf("✗ не удалось создать ответ: %v", err)
					continue
				}
				commentCount++
			}
		}
	}
	log.Printf("✓ Комментариев: %d", commentCount)

	// Лайки: каждый пользователь лайкает часть опубликованных блогов
	likeCount := 0
	for _, user := range users {
		for _, blogID := range publishedIDs {
			if rand.Float32() < 0.6 {
				if _, err := repo.Like.Toggle(ctx, user.UserID, blogID); err != nil {
					continue
				}
				likeCount++
			}
		}
	}
	log.Printf("✓ Лайков: %d", likeCount)

	fmt.Println()
	fmt.Printf("Готово. Вход администратора: %s / %s\n", *adminEmail, *adminPassword)
	fmt.Println("Вход авторов: <email из списка> / Demo1234")
}

// excerpt обрезает текст до первого абзаца, чтобы карточки в списке
// выглядели аккуратно.
func excerpt(body string) string {
	const max = 200
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}
