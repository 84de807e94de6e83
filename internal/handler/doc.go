// Package handlers - HTTP-слой Blog API.
//
//	@title						Blog API
//	@version					1.0
//	@description				REST API платформы блогов: публикации с markdown-разметкой,
//	@description				категории и теги, ветвящиеся комментарии, лайки и загрузка
//	@description				изображений в объектное хранилище.
//	@description
//	@description				Access token передается в заголовке Authorization в формате
//	@description				"Bearer <token>". Пару токенов выдают /api/auth/register и
//	@description				/api/auth/login, обновление - через /api/auth/refresh-token.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token из /api/auth/login
//
//	@tag.name					auth
//	@tag.description			Регистрация, вход, токены и администрирование пользователей.
//
//	@tag.name					blogs
//	@tag.description			CRUD блогов, фильтры списка, лайки.
//
//	@tag.name					comments
//	@tag.description			Ветвящиеся комментарии с премодерацией.
//
//	@tag.name					categories
//	@tag.description			Справочник категорий.
//
//	@tag.name					tags
//	@tag.description			Справочник тегов.
//
//	@tag.name					images
//	@tag.description			Изображения блогов в MinIO.
//
//	@tag.name					profile
//	@tag.description			Личный кабинет: мои блоги, комментарии, лайки, статистика.
//
//	@tag.name					users
//	@tag.description			Публичные профили авторов.
//
//	@tag.name					system
//	@tag.description			Служебные эндпоинты.
package handlers
