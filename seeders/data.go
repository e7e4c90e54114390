package seeders

// Пулы значений для генератора синтетических заявок.

var workerNames = []string{
	"Рустам Холов",
	"Игорь Семёнов",
	"Далер Шарипов",
	"Павел Крылов",
	"Умед Сафаров",
	"Андрей Лукин",
}

var ticketTitles = map[string][]string{
	"fallen": {
		"Упавшее дерево у корпуса",
		"Дерево упало на дорожку",
		"Сухостой повалило ветром",
	},
	"broken": {
		"Сломанные ветви над тротуаром",
		"Надломленная ветвь в кроне",
		"Ветви обломаны после ветра",
	},
	"tilted": {
		"Опасный наклон ствола",
		"Дерево накренилось к дороге",
		"Наклон после подмыва грунта",
	},
}

var impacts = []string{
	"",
	"Перекрыта пешеходная дорожка",
	"Опасность падения веток",
	"Повреждено ограждение",
	"Затруднён проезд техники",
}

var notes = []string{
	"",
	"Нужен вывоз древесины после распила.",
	"Согласовать работы с комендантом корпуса.",
	"Повторный осмотр через неделю.",
}
