// Package parser строит AST из дерева токенов.
//
// Операторы и объявления разбираются рекурсивным спуском, выражения
// разбираются методом precedence climbing по таблице binaryOps. Парсер
// никогда не падает: на ошибке выпускается одна диагностика, на месте
// конструкции остаётся Error-узел, а разбор продолжается с ближайшего
// разделителя или конца группы.
package parser
