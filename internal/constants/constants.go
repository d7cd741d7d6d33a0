package constants

// Roles
// Роли пользователей
const (
	ROLE_GUEST   = "guest" // Нет записи в БД, в таблице не хранится
	ROLE_USER    = "user"
	ROLE_MANAGER = "manager"
	ROLE_ADMIN   = "admin"
)

// Car catalog countries
// Страны подборок
const (
	COUNTRY_JAPAN = "japan"
	COUNTRY_KOREA = "korea"
	COUNTRY_CHINA = "china"
)

// Countries - порядок стран в клавиатурах.
var Countries = []string{COUNTRY_JAPAN, COUNTRY_KOREA, COUNTRY_CHINA}

// CountryDisplayMap - подписи стран для кнопок.
var CountryDisplayMap = map[string]string{
	COUNTRY_JAPAN: "🇯🇵 Япония",
	COUNTRY_KOREA: "🇰🇷 Корея",
	COUNTRY_CHINA: "🇨🇳 Китай",
}

// Reply keyboard buttons
// Кнопки основной клавиатуры
const (
	BTN_CALC_COST     = "Расчет стоимости авто"
	BTN_WORK_PROCESS  = "Процесс работы"
	BTN_CONTRACT      = "Пример договора"
	BTN_COMPANY_INFO  = "Информация о компании"
	BTN_PAYMENT       = "Процесс оплаты"
	BTN_CAR_PICKS     = "Подборки авто"
	BTN_FAQ           = "Популярные вопросы"
	BTN_ADMIN_PANEL   = "Панель администратора"
	BTN_CANCEL        = "Отменить"
	BTN_FINISH_PHOTOS = "Завершить отправку фото"
	BTN_SHARE_PHONE   = "Отправить номер телефона"
)

// InfoPageButtons - кнопки, открывающие информационные страницы из контента.
var InfoPageButtons = []string{BTN_WORK_PROCESS, BTN_CONTRACT, BTN_COMPANY_INFO, BTN_PAYMENT}

// Callback data
const (
	CALLBACK_CALC_COST            = "calc_cost"
	CALLBACK_ADMIN_USERS          = "admin_users"
	CALLBACK_ADMIN_ADD_CAR        = "admin_add_car"
	CALLBACK_ADMIN_ASSIGN_MANAGER = "admin_assign_manager"
	CALLBACK_ADMIN_REMOVE_MANAGER = "admin_remove_manager"
	CALLBACK_ADMIN_EXPORT_LEADS   = "admin_export_leads"

	CALLBACK_PREFIX_CARS          = "cars_"          // cars_<country>
	CALLBACK_PREFIX_ADD_CAR       = "add_car_"       // add_car_<country>
	CALLBACK_PREFIX_ORDER_SIMILAR = "order_similar_" // order_similar_<id>
	CALLBACK_PREFIX_DELETE_CAR    = "delete_car_"    // delete_car_<id>
	CALLBACK_PREFIX_QR_CAR        = "qr_car_"        // qr_car_<id>
	CALLBACK_PREFIX_FAQ           = "faq_"           // faq_<key>
)

// Deep link payloads: /start car_<id>
const START_PAYLOAD_CAR_PREFIX = "car_"

// Cleanup and listing limits
const (
	CLEANUP_WINDOW   = 50 // Кроме якорного сообщения удаляются 50 предыдущих
	USERS_LIST_LIMIT = 50
	LEADS_API_LIMIT  = 500
)

// OrderSimilarPrefix - префикс описания авто в заявке "заказать подобный".
const OrderSimilarPrefix = "Из подборки: "
