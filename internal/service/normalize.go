// normalize.go — нормализация загруженных изображений.
//
// Изображение вписывается в целевой бокс без обрезки (contain),
// поля заливаются фоновым цветом, результат всегда перекодируется
// в PNG и атомарно подменяет исходный файл: temp → fsync → rename.
// Читатель канонического пути никогда не видит полузаписанный файл.
//
// Нормализация — best-effort косметика: при ошибке decode/encode
// вызывающий код логирует проблему и оставляет исходный файл как есть.
package service

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	// Декодеры форматов, допустимых на входе
	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
)

// NormalizeParams — параметры нормализации изображения.
type NormalizeParams struct {
	// TargetWidth, TargetHeight — размер целевого бокса в пикселях
	TargetWidth  int
	TargetHeight int
	// Background — цвет полей (для логотипов — прозрачный)
	Background color.NRGBA
}

// ImageNormalizer — приведение изображений к каноническому виду.
type ImageNormalizer struct {
	logger *slog.Logger
}

// NewImageNormalizer создаёт нормализатор изображений.
func NewImageNormalizer(logger *slog.Logger) *ImageNormalizer {
	return &ImageNormalizer{
		logger: logger.With(slog.String("component", "image_normalizer")),
	}
}

// Normalize перекодирует файл по пути path в PNG целевого размера.
//
// Поток:
//  1. Декодирование исходного изображения (png/jpeg/gif)
//  2. Масштабирование contain: изображение целиком внутри бокса
//  3. Отрисовка на холсте фонового цвета, CatmullRom-интерполяция
//  4. Кодирование PNG в temp файл рядом с оригиналом
//  5. fsync → rename поверх оригинала (атомарная подмена)
func (n *ImageNormalizer) Normalize(path string, params NormalizeParams) error {
	if params.TargetWidth <= 0 || params.TargetHeight <= 0 {
		return fmt.Errorf("%w: некорректный целевой размер %dx%d",
			ErrValidation, params.TargetWidth, params.TargetHeight)
	}

	// 1. Декодирование
	src, err := decodeImage(path)
	if err != nil {
		return err
	}

	// 2. Contain: масштаб по меньшей стороне, без увеличения сверх бокса
	srcBounds := src.Bounds()
	fitW, fitH := containSize(srcBounds.Dx(), srcBounds.Dy(), params.TargetWidth, params.TargetHeight)

	// 3. Холст с фоном, изображение по центру
	dst := image.NewNRGBA(image.Rect(0, 0, params.TargetWidth, params.TargetHeight))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(params.Background), image.Point{}, xdraw.Src)

	offsetX := (params.TargetWidth - fitW) / 2
	offsetY := (params.TargetHeight - fitH) / 2
	fitRect := image.Rect(offsetX, offsetY, offsetX+fitW, offsetY+fitH)
	xdraw.CatmullRom.Scale(dst, fitRect, src, srcBounds, xdraw.Over, nil)

	// 4-5. Атомарная подмена. Единый rename поверх оригинала: либо
	// старый файл, либо полностью записанный новый, третьего не дано.
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if err := png.Encode(f, dst); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка кодирования PNG: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	n.logger.Info("Изображение нормализовано",
		slog.String("path", path),
		slog.Int("width", params.TargetWidth),
		slog.Int("height", params.TargetHeight),
	)

	return nil
}

// decodeImage открывает и декодирует изображение.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия изображения %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования изображения %s: %w", path, err)
	}
	return src, nil
}

// containSize возвращает размер изображения, вписанного в бокс
// targetW×targetH с сохранением пропорций, без обрезки.
func containSize(srcW, srcH, targetW, targetH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return targetW, targetH
	}

	// Сравнение пропорций без деления: srcW/srcH vs targetW/targetH
	if srcW*targetH > targetW*srcH {
		// Ограничивает ширина
		h := srcH * targetW / srcW
		if h < 1 {
			h = 1
		}
		return targetW, h
	}
	// Ограничивает высота
	w := srcW * targetH / srcH
	if w < 1 {
		w = 1
	}
	return w, targetH
}
