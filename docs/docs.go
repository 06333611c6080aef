// Package docs регистрирует swagger-описание шлюза.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "SessionToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/sessions": {"post": {"tags": ["session"], "summary": "Открыть сессию браузера", "responses": {"201": {"description": "Created"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "security": [{"SessionToken": []}], "summary": "Вход по телефону и паролю", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "422": {"description": "Unprocessable Entity"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "security": [{"SessionToken": []}], "summary": "Регистрация", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "security": [{"SessionToken": []}], "summary": "Выход", "responses": {"200": {"description": "OK"}}}},
        "/state": {"get": {"tags": ["state"], "security": [{"SessionToken": []}], "summary": "Снимок состояния сессии", "responses": {"200": {"description": "OK"}}}},
        "/profile": {"get": {"tags": ["profile"], "security": [{"SessionToken": []}], "summary": "Профиль пользователя", "responses": {"200": {"description": "OK"}}}},
        "/profile/suggestions": {"get": {"tags": ["profile"], "security": [{"SessionToken": []}], "summary": "Рекомендации", "responses": {"200": {"description": "OK"}}}},
        "/profile/reviews": {"post": {"tags": ["profile"], "security": [{"SessionToken": []}], "summary": "Отзыв о мастерской", "responses": {"201": {"description": "Created"}}}},
        "/catalog": {"get": {"tags": ["catalog"], "security": [{"SessionToken": []}], "summary": "Каталог мастерских", "responses": {"200": {"description": "OK"}}}},
        "/content": {"get": {"tags": ["catalog"], "security": [{"SessionToken": []}], "summary": "Контент витрины", "responses": {"200": {"description": "OK"}}}},
        "/support": {"post": {"tags": ["catalog"], "security": [{"SessionToken": []}], "summary": "Обращение в поддержку", "responses": {"200": {"description": "OK"}}}},
        "/workshops/{id}/watch": {"get": {"tags": ["catalog"], "security": [{"SessionToken": []}], "summary": "Доступ к записи мастерской", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/cart": {"get": {"tags": ["cart"], "security": [{"SessionToken": []}], "summary": "Корзина", "responses": {"200": {"description": "OK"}}}},
        "/cart/items": {"post": {"tags": ["cart"], "security": [{"SessionToken": []}], "summary": "Добавить в корзину", "responses": {"200": {"description": "OK"}}}},
        "/cart/items/{id}": {
            "put": {"tags": ["cart"], "security": [{"SessionToken": []}], "summary": "Изменить количество", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["cart"], "security": [{"SessionToken": []}], "summary": "Удалить позицию", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/orders/summary": {"get": {"tags": ["orders"], "security": [{"SessionToken": []}], "summary": "Итог заказа", "responses": {"200": {"description": "OK"}}}},
        "/orders": {"post": {"tags": ["orders"], "security": [{"SessionToken": []}], "summary": "Оформить заказ", "responses": {"200": {"description": "OK"}}}},
        "/subscriptions": {"post": {"tags": ["purchases"], "security": [{"SessionToken": []}], "summary": "Подписка на мастерскую", "responses": {"200": {"description": "OK"}}}},
        "/subscriptions/payment": {"post": {"tags": ["purchases"], "security": [{"SessionToken": []}], "summary": "Оплата подписки", "responses": {"200": {"description": "OK"}}}},
        "/charity": {"post": {"tags": ["purchases"], "security": [{"SessionToken": []}], "summary": "Благотворительная покупка", "responses": {"200": {"description": "OK"}}}},
        "/charity/payment": {"post": {"tags": ["purchases"], "security": [{"SessionToken": []}], "summary": "Оплата благотворительной покупки", "responses": {"200": {"description": "OK"}}}},
        "/gifts": {
            "get": {"tags": ["gifts"], "security": [{"SessionToken": []}], "summary": "Подарки пользователя", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["gifts"], "security": [{"SessionToken": []}], "summary": "Подарить мастерскую", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/subscriptions/{id}/certificate": {"get": {"tags": ["documents"], "security": [{"SessionToken": []}], "summary": "Сертификат", "produces": ["application/pdf"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/subscriptions/{id}/invoice": {"get": {"tags": ["documents"], "security": [{"SessionToken": []}], "summary": "Счёт", "produces": ["application/pdf"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/subscriptions/{id}/certificate/rendered": {"get": {"tags": ["documents"], "security": [{"SessionToken": []}], "summary": "Сертификат, собранный шлюзом", "produces": ["application/pdf"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "501": {"description": "Not Implemented"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Dr. Hope Gateway API",
	Description:      "Шлюз витрины мастерских Dr. Hope",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InfoInstanceName, SwaggerInfo)
}
