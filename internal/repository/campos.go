package repository

import "gestion/internal/query"

// Filterable and sortable fields per collection, keyed by API field name.

var CamposUsuario = query.Campos{
	"id":        {Columna: "id", Tipo: query.UUID},
	"email":     {Columna: "email", Tipo: query.Texto},
	"nombre":    {Columna: "nombre", Tipo: query.Texto},
	"role":      {Columna: "rol", Tipo: query.Texto},
	"createdAt": {Columna: "created_at", Tipo: query.Fecha},
	"updatedAt": {Columna: "updated_at", Tipo: query.Fecha},
}

var CamposPermiso = query.Campos{
	"id":        {Columna: "id", Tipo: query.UUID},
	"usuario":   {Columna: "usuario_id", Tipo: query.UUID},
	"createdAt": {Columna: "created_at", Tipo: query.Fecha},
	"updatedAt": {Columna: "updated_at", Tipo: query.Fecha},
}

var CamposItem = query.Campos{
	"id":          {Columna: "id", Tipo: query.UUID},
	"nombre":      {Columna: "nombre", Tipo: query.Texto},
	"sku":         {Columna: "sku", Tipo: query.Texto},
	"precio":      {Columna: "precio", Tipo: query.Decimal},
	"stock":       {Columna: "stock", Tipo: query.Entero},
	"descripcion": {Columna: "descripcion", Tipo: query.Texto},
	"activo":      {Columna: "activo", Tipo: query.Booleano},
	"createdAt":   {Columna: "created_at", Tipo: query.Fecha},
	"updatedAt":   {Columna: "updated_at", Tipo: query.Fecha},
}

var CamposVenta = query.Campos{
	"id":          {Columna: "id", Tipo: query.UUID},
	"fecha":       {Columna: "fecha", Tipo: query.Fecha},
	"referencia":  {Columna: "referencia", Tipo: query.Texto},
	"cliente":     {Columna: "cliente", Tipo: query.Texto},
	"producto":    {Columna: "producto_id", Tipo: query.UUID},
	"cantidad":    {Columna: "cantidad", Tipo: query.Entero},
	"total":       {Columna: "total", Tipo: query.Decimal},
	"estado":      {Columna: "estado", Tipo: query.Texto},
	"descripcion": {Columna: "descripcion", Tipo: query.Texto},
	"createdAt":   {Columna: "created_at", Tipo: query.Fecha},
	"updatedAt":   {Columna: "updated_at", Tipo: query.Fecha},
}

var CamposCobranza = query.Campos{
	"id":               {Columna: "id", Tipo: query.UUID},
	"fechaVencimiento": {Columna: "fecha_vencimiento", Tipo: query.Fecha},
	"referencia":       {Columna: "referencia", Tipo: query.Texto},
	"cliente":          {Columna: "cliente", Tipo: query.Texto},
	"monto":            {Columna: "monto", Tipo: query.Decimal},
	"estado":           {Columna: "estado", Tipo: query.Texto},
	"descripcion":      {Columna: "descripcion", Tipo: query.Texto},
	"createdAt":        {Columna: "created_at", Tipo: query.Fecha},
	"updatedAt":        {Columna: "updated_at", Tipo: query.Fecha},
}
