// Package scheduler запускает служебные задачи по cron-расписанию.
//
// Структура:
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//   - scheduler.go — Scheduler поверх robfig/cron
//   - jobs.go      — задачи: ротация журнала, очистка архива
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{Logger: logger, Observer: m})
//	if err := sched.Add("rotate-log", "@daily", scheduler.RotateLog(fileSink)); err != nil {
//	    return err
//	}
//	sched.Start(ctx)
//	defer sched.Stop()
//
// Ошибка задачи логируется и учитывается в метриках, на остальные задачи
// не влияет.
package scheduler
